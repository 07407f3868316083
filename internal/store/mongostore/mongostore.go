// Package mongostore implements the store interfaces on top of MongoDB.
// Reference fields are expanded with $lookup pipelines so callers receive
// the same populated shapes the API serves.
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medconnect/booking-api/internal/apperr"
)

const (
	usersCollection        = "users"
	doctorsCollection      = "doctors"
	appointmentsCollection = "appointments"
)

type Store struct {
	Users        *UserStore
	Doctors      *DoctorStore
	Appointments *AppointmentStore
}

func New(db *mongo.Database) *Store {
	return &Store{
		Users:        &UserStore{col: db.Collection(usersCollection)},
		Doctors:      &DoctorStore{col: db.Collection(doctorsCollection)},
		Appointments: &AppointmentStore{col: db.Collection(appointmentsCollection)},
	}
}

// EnsureIndexes creates the unique email index duplicate-registration
// detection relies on. Called once at boot.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Users.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// notFoundOr translates a missing-document error into the taxonomy and
// wraps everything else as Internal.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(err.Error())
}
