package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/voyage-planner/voyage/internal/domain"
)

type userDoc struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Email            string    `bson:"email"`
	PasswordHash     string    `bson:"password_hash"`
	FlightBookingIDs []string  `bson:"flight_booking_ids"`
	HotelBookingIDs  []string  `bson:"hotel_booking_ids"`
	ItineraryIDs     []string  `bson:"itinerary_ids"`
	TripIDs          []string  `bson:"trip_ids"`
	RegisteredAt     time.Time `bson:"registered_at"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:               parseID(d.ID),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		FlightBookingIDs: parseIDs(d.FlightBookingIDs),
		HotelBookingIDs:  parseIDs(d.HotelBookingIDs),
		ItineraryIDs:     parseIDs(d.ItineraryIDs),
		TripIDs:          parseIDs(d.TripIDs),
		RegisteredAt:     d.RegisteredAt,
	}
}

type userRepo struct {
	c *driver.Collection
}

func (r *userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := userDoc{
		ID:               uuid.NewString(),
		Name:             u.Name,
		Email:            strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash:     u.PasswordHash,
		FlightBookingIDs: []string{},
		HotelBookingIDs:  []string{},
		ItineraryIDs:     []string{},
		TripIDs:          []string{},
		RegisteredAt:     now(),
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		if driver.IsDuplicateKeyError(err) {
			return domain.User{}, fmt.Errorf("mongo.UserRepo.Create: %w: email already registered", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("mongo.UserRepo.Create: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.findOne(ctx, "mongo.UserRepo.GetByID", bson.M{"_id": id.String()})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "mongo.UserRepo.GetByEmail", bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepo) findOne(ctx context.Context, op string, filter bson.M) (domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc userDoc
	if err := r.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *userRepo) AddRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	return r.editRef(ctx, "mongo.UserRepo.AddRef", "$addToSet", userID, kind, ref)
}

func (r *userRepo) RemoveRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	return r.editRef(ctx, "mongo.UserRepo.RemoveRef", "$pull", userID, kind, ref)
}

func (r *userRepo) editRef(ctx context.Context, op, operator string, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	if !kind.Valid() {
		return fmt.Errorf("%s: unknown ref kind %q", op, kind)
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{operator: bson.M{string(kind): ref.String()}}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": userID.String()}, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
