package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voyage-planner/voyage/internal/domain"
)

type tripDoc struct {
	ID              string    `bson:"_id"`
	UserID          string    `bson:"user_id"`
	Name            string    `bson:"name"`
	Destination     string    `bson:"destination"`
	StartDate       time.Time `bson:"start_date"`
	EndDate         time.Time `bson:"end_date"`
	FlightBookingID *string   `bson:"flight_booking_id"`
	HotelBookingID  *string   `bson:"hotel_booking_id"`
	ItineraryID     *string   `bson:"itinerary_id"`
	Status          string    `bson:"status"`
	Budget          *float64  `bson:"budget"`
	Notes           string    `bson:"notes"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func newTripDoc(t domain.Trip) tripDoc {
	return tripDoc{
		ID:              t.ID.String(),
		UserID:          t.UserID.String(),
		Name:            t.Name,
		Destination:     t.Destination,
		StartDate:       t.StartDate.UTC(),
		EndDate:         t.EndDate.UTC(),
		FlightBookingID: optionalIDString(t.FlightBookingID),
		HotelBookingID:  optionalIDString(t.HotelBookingID),
		ItineraryID:     optionalIDString(t.ItineraryID),
		Status:          string(t.Status),
		Budget:          t.Budget,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (d tripDoc) toDomain() domain.Trip {
	return domain.Trip{
		ID:              parseID(d.ID),
		UserID:          parseID(d.UserID),
		Name:            d.Name,
		Destination:     d.Destination,
		StartDate:       d.StartDate.UTC(),
		EndDate:         d.EndDate.UTC(),
		FlightBookingID: optionalID(d.FlightBookingID),
		HotelBookingID:  optionalID(d.HotelBookingID),
		ItineraryID:     optionalID(d.ItineraryID),
		Status:          domain.TripStatus(d.Status),
		Budget:          d.Budget,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type tripRepo struct {
	c *driver.Collection
}

func (r *tripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t.ID = uuid.New()
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	doc := newTripDoc(t)
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return domain.Trip{}, fmt.Errorf("mongo.TripRepo.Create: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *tripRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc tripDoc
	if err := r.c.FindOne(ctx, ownedFilter(userID, id)).Decode(&doc); err != nil {
		return domain.Trip{}, fmt.Errorf("mongo.TripRepo.GetByID: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *tripRepo) ListPaged(ctx context.Context, userID uuid.UUID, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := bson.M{"user_id": userID.String()}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}

	total, err := r.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo.TripRepo.ListPaged: count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
	cursor, err := r.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo.TripRepo.ListPaged: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tripDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("mongo.TripRepo.ListPaged: decode: %w", err)
	}
	trips := make([]domain.Trip, len(docs))
	for i, d := range docs {
		trips[i] = d.toDomain()
	}
	return trips, total, nil
}

func (r *tripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := newTripDoc(t)
	set := bson.M{
		"name":              doc.Name,
		"destination":       doc.Destination,
		"start_date":        doc.StartDate,
		"end_date":          doc.EndDate,
		"flight_booking_id": doc.FlightBookingID,
		"hotel_booking_id":  doc.HotelBookingID,
		"itinerary_id":      doc.ItineraryID,
		"status":            doc.Status,
		"budget":            doc.Budget,
		"notes":             doc.Notes,
		"updated_at":        now(),
	}

	var out tripDoc
	err := r.c.FindOneAndUpdate(ctx, ownedFilter(t.UserID, t.ID), bson.M{"$set": set}, returnAfter).Decode(&out)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("mongo.TripRepo.Update: %w", mapErr(err))
	}
	return out.toDomain(), nil
}

func (r *tripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(ctx, r.c, "mongo.TripRepo.Delete", userID, id)
}

// deleteOwned removes one owned document, mapping a zero count to ErrNotFound.
func deleteOwned(ctx context.Context, c *driver.Collection, op string, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := c.DeleteOne(ctx, ownedFilter(userID, id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
