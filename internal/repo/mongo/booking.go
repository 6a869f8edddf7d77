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

var byBookingDate = options.Find().SetSort(bson.D{{Key: "booking_date", Value: -1}, {Key: "_id", Value: 1}})

type flightBookingDoc struct {
	ID            string     `bson:"_id"`
	UserID        string     `bson:"user_id"`
	FlightID      string     `bson:"flight_id"`
	Origin        string     `bson:"origin"`
	Destination   string     `bson:"destination"`
	DepartureDate time.Time  `bson:"departure_date"`
	ReturnDate    *time.Time `bson:"return_date"`
	Airline       string     `bson:"airline"`
	FlightNumber  string     `bson:"flight_number"`
	Passengers    int        `bson:"passengers"`
	Price         int        `bson:"price"`
	Status        string     `bson:"status"`
	BookingDate   time.Time  `bson:"booking_date"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func (d flightBookingDoc) toDomain() domain.FlightBooking {
	var ret *time.Time
	if d.ReturnDate != nil {
		t := d.ReturnDate.UTC()
		ret = &t
	}
	return domain.FlightBooking{
		ID:            parseID(d.ID),
		UserID:        parseID(d.UserID),
		FlightID:      d.FlightID,
		Origin:        d.Origin,
		Destination:   d.Destination,
		DepartureDate: d.DepartureDate.UTC(),
		ReturnDate:    ret,
		Airline:       d.Airline,
		FlightNumber:  d.FlightNumber,
		Passengers:    d.Passengers,
		Price:         d.Price,
		Status:        domain.BookingStatus(d.Status),
		BookingDate:   d.BookingDate.UTC(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type flightBookingRepo struct {
	c *driver.Collection
}

func (r *flightBookingRepo) Create(ctx context.Context, b domain.FlightBooking) (domain.FlightBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	created := now()
	doc := flightBookingDoc{
		ID:            uuid.NewString(),
		UserID:        b.UserID.String(),
		FlightID:      b.FlightID,
		Origin:        b.Origin,
		Destination:   b.Destination,
		DepartureDate: b.DepartureDate.UTC(),
		ReturnDate:    b.ReturnDate,
		Airline:       b.Airline,
		FlightNumber:  b.FlightNumber,
		Passengers:    b.Passengers,
		Price:         b.Price,
		Status:        string(b.Status),
		BookingDate:   b.BookingDate.UTC(),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return domain.FlightBooking{}, fmt.Errorf("mongo.FlightBookingRepo.Create: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *flightBookingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc flightBookingDoc
	if err := r.c.FindOne(ctx, ownedFilter(userID, id)).Decode(&doc); err != nil {
		return domain.FlightBooking{}, fmt.Errorf("mongo.FlightBookingRepo.GetByID: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *flightBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.c.Find(ctx, bson.M{"user_id": userID.String()}, byBookingDate)
	if err != nil {
		return nil, fmt.Errorf("mongo.FlightBookingRepo.ListByUser: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []flightBookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo.FlightBookingRepo.ListByUser: decode: %w", err)
	}
	out := make([]domain.FlightBooking, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *flightBookingRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.FlightBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": now()}}
	var doc flightBookingDoc
	if err := r.c.FindOneAndUpdate(ctx, ownedFilter(userID, id), update, returnAfter).Decode(&doc); err != nil {
		return domain.FlightBooking{}, fmt.Errorf("mongo.FlightBookingRepo.UpdateStatus: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *flightBookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(ctx, r.c, "mongo.FlightBookingRepo.Delete", userID, id)
}

type hotelBookingDoc struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	HotelID       string    `bson:"hotel_id"`
	HotelName     string    `bson:"hotel_name"`
	Destination   string    `bson:"destination"`
	CheckInDate   time.Time `bson:"check_in_date"`
	CheckOutDate  time.Time `bson:"check_out_date"`
	PricePerNight int       `bson:"price_per_night"`
	Guests        int       `bson:"guests"`
	Status        string    `bson:"status"`
	BookingDate   time.Time `bson:"booking_date"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d hotelBookingDoc) toDomain() domain.HotelBooking {
	return domain.HotelBooking{
		ID:            parseID(d.ID),
		UserID:        parseID(d.UserID),
		HotelID:       d.HotelID,
		HotelName:     d.HotelName,
		Destination:   d.Destination,
		CheckInDate:   d.CheckInDate.UTC(),
		CheckOutDate:  d.CheckOutDate.UTC(),
		PricePerNight: d.PricePerNight,
		Guests:        d.Guests,
		Status:        domain.BookingStatus(d.Status),
		BookingDate:   d.BookingDate.UTC(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type hotelBookingRepo struct {
	c *driver.Collection
}

func (r *hotelBookingRepo) Create(ctx context.Context, b domain.HotelBooking) (domain.HotelBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	created := now()
	doc := hotelBookingDoc{
		ID:            uuid.NewString(),
		UserID:        b.UserID.String(),
		HotelID:       b.HotelID,
		HotelName:     b.HotelName,
		Destination:   b.Destination,
		CheckInDate:   b.CheckInDate.UTC(),
		CheckOutDate:  b.CheckOutDate.UTC(),
		PricePerNight: b.PricePerNight,
		Guests:        b.Guests,
		Status:        string(b.Status),
		BookingDate:   b.BookingDate.UTC(),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return domain.HotelBooking{}, fmt.Errorf("mongo.HotelBookingRepo.Create: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *hotelBookingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc hotelBookingDoc
	if err := r.c.FindOne(ctx, ownedFilter(userID, id)).Decode(&doc); err != nil {
		return domain.HotelBooking{}, fmt.Errorf("mongo.HotelBookingRepo.GetByID: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *hotelBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.c.Find(ctx, bson.M{"user_id": userID.String()}, byBookingDate)
	if err != nil {
		return nil, fmt.Errorf("mongo.HotelBookingRepo.ListByUser: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []hotelBookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo.HotelBookingRepo.ListByUser: decode: %w", err)
	}
	out := make([]domain.HotelBooking, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *hotelBookingRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.HotelBooking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": now()}}
	var doc hotelBookingDoc
	if err := r.c.FindOneAndUpdate(ctx, ownedFilter(userID, id), update, returnAfter).Decode(&doc); err != nil {
		return domain.HotelBooking{}, fmt.Errorf("mongo.HotelBookingRepo.UpdateStatus: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *hotelBookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return deleteOwned(ctx, r.c, "mongo.HotelBookingRepo.Delete", userID, id)
}
