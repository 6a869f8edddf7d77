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

type activityDoc struct {
	Name        string `bson:"name"`
	Time        string `bson:"time,omitempty"`
	Description string `bson:"description,omitempty"`
	Location    string `bson:"location,omitempty"`
}

type dayDoc struct {
	Date       time.Time     `bson:"date"`
	Activities []activityDoc `bson:"activities"`
}

type itineraryDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Destination string    `bson:"destination"`
	StartDate   time.Time `bson:"start_date"`
	EndDate     time.Time `bson:"end_date"`
	Days        []dayDoc  `bson:"days"`
	Title       string    `bson:"title"`
	Notes       string    `bson:"notes"`
	GeneratedAt time.Time `bson:"generated_at"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDayDocs(days []domain.Day) []dayDoc {
	out := make([]dayDoc, len(days))
	for i, d := range days {
		acts := make([]activityDoc, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = activityDoc(a)
		}
		out[i] = dayDoc{Date: domain.CalendarDate(d.Date), Activities: acts}
	}
	return out
}

func (d itineraryDoc) toDomain() domain.Itinerary {
	days := make([]domain.Day, len(d.Days))
	for i, day := range d.Days {
		acts := make([]domain.Activity, len(day.Activities))
		for j, a := range day.Activities {
			acts[j] = domain.Activity(a)
		}
		days[i] = domain.Day{Date: day.Date.UTC(), Activities: acts}
	}
	return domain.Itinerary{
		ID:          parseID(d.ID),
		UserID:      parseID(d.UserID),
		Destination: d.Destination,
		StartDate:   d.StartDate.UTC(),
		EndDate:     d.EndDate.UTC(),
		Days:        days,
		Title:       d.Title,
		Notes:       d.Notes,
		GeneratedAt: d.GeneratedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type itineraryRepo struct {
	c *driver.Collection
}

func (r *itineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	created := now()
	generated := it.GeneratedAt
	if generated.IsZero() {
		generated = created
	}
	doc := itineraryDoc{
		ID:          uuid.NewString(),
		UserID:      it.UserID.String(),
		Destination: it.Destination,
		StartDate:   it.StartDate.UTC(),
		EndDate:     it.EndDate.UTC(),
		Days:        toDayDocs(it.Days),
		Title:       it.Title,
		Notes:       it.Notes,
		GeneratedAt: generated,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return domain.Itinerary{}, fmt.Errorf("mongo.ItineraryRepo.Create: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *itineraryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc itineraryDoc
	if err := r.c.FindOne(ctx, ownedFilter(userID, id)).Decode(&doc); err != nil {
		return domain.Itinerary{}, fmt.Errorf("mongo.ItineraryRepo.GetByID: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *itineraryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.c.Find(ctx, bson.M{"user_id": userID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.ItineraryRepo.ListByUser: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itineraryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo.ItineraryRepo.ListByUser: decode: %w", err)
	}
	out := make([]domain.Itinerary, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *itineraryRepo) Update(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{
		"start_date": it.StartDate.UTC(),
		"end_date":   it.EndDate.UTC(),
		"days":       toDayDocs(it.Days),
		"title":      it.Title,
		"notes":      it.Notes,
		"updated_at": now(),
	}
	var doc itineraryDoc
	err := r.c.FindOneAndUpdate(ctx, ownedFilter(it.UserID, it.ID), bson.M{"$set": set}, returnAfter).Decode(&doc)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("mongo.ItineraryRepo.Update: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *itineraryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(ctx, r.c, "mongo.ItineraryRepo.Delete", userID, id)
}
