// Package mongo implements every repo interface on a MongoDB database.
// Ids are stored as uuid strings in _id; every owned document carries user_id
// and all single-document operations filter on it.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/repo"
)

const (
	usersCollection          = "users"
	tripsCollection          = "trips"
	flightBookingsCollection = "flight_bookings"
	hotelBookingsCollection  = "hotel_bookings"
	itinerariesCollection    = "itineraries"
)

// DefaultTimeout bounds each store call when the caller's context has no
// earlier deadline.
const DefaultTimeout = 5 * time.Second

// Repos bundles the MongoDB implementation of each repo interface.
type Repos struct {
	Users          repo.UserRepo
	Trips          repo.TripRepo
	FlightBookings repo.FlightBookingRepo
	HotelBookings  repo.HotelBookingRepo
	Itineraries    repo.ItineraryRepo
}

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*driver.Client, error) {
	client, err := driver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo.Connect: ping: %w", err)
	}
	return client, nil
}

// New returns repos over db. Call EnsureIndexes once at startup.
func New(db *driver.Database) *Repos {
	return &Repos{
		Users:          &userRepo{c: db.Collection(usersCollection)},
		Trips:          &tripRepo{c: db.Collection(tripsCollection)},
		FlightBookings: &flightBookingRepo{c: db.Collection(flightBookingsCollection)},
		HotelBookings:  &hotelBookingRepo{c: db.Collection(hotelBookingsCollection)},
		Itineraries:    &itineraryRepo{c: db.Collection(itinerariesCollection)},
	}
}

// EnsureIndexes creates the unique email index and the per-owner listing indexes.
func EnsureIndexes(ctx context.Context, db *driver.Database) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, driver.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo.EnsureIndexes: users: %w", err)
	}

	owned := map[string]string{
		tripsCollection:          "created_at",
		flightBookingsCollection: "booking_date",
		hotelBookingsCollection:  "booking_date",
		itinerariesCollection:    "created_at",
	}
	for coll, sortKey := range owned {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, driver.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: sortKey, Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("mongo.EnsureIndexes: %s: %w", coll, err)
		}
	}
	return nil
}

// withTimeout applies DefaultTimeout unless ctx already expires sooner.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < DefaultTimeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}

func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// ownedFilter matches one document by id and owner.
func ownedFilter(userID, id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "user_id": userID.String()}
}

// mapErr turns ErrNoDocuments into domain.ErrNotFound.
func mapErr(err error) error {
	if errors.Is(err, driver.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs(ss []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func optionalIDString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

// returnAfter makes FindOneAndUpdate return the post-update document.
var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)
