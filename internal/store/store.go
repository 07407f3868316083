// Package store defines the repository interfaces the handlers and policy
// depend on. Implementations resolve reference fields themselves, so callers
// always receive fully-populated aggregates and never touch the driver.
//
// Known limitation carried over from the original system: nothing here
// checks a new appointment's time range against the doctor's declared
// availability or existing bookings. A booking succeeds whenever the doctor
// reference resolves.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/models"
)

// UserUpdate carries a partial profile update; nil fields are left untouched.
// Password, when set, must already be hashed.
type UserUpdate struct {
	Name        *string
	Email       *string
	Password    *string
	PhoneNumber *string
	Address     *string
	DateOfBirth *time.Time
	Gender      *string
	Role        *string
}

type UserStore interface {
	// Create inserts the user and returns Conflict when the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error)
	// List returns every user; password hashes are stripped by the model's
	// JSON tag on serialization.
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// DoctorUpdate carries a partial profile update; nil fields are left untouched.
type DoctorUpdate struct {
	Specialization  *string
	Experience      *int
	Qualifications  []string
	Bio             *string
	ConsultationFee *float64
	Availability    []models.AvailabilitySlot
}

type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	// GetByUserID returns the profile owned by the given user, or NotFound.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	ListAll(ctx context.Context) ([]models.DoctorDetail, error)
	GetDetail(ctx context.Context, id primitive.ObjectID) (*models.DoctorDetail, error)
	UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd DoctorUpdate) (*models.Doctor, error)
	// ReplaceReviews rewrites the whole reviews array together with the
	// derived average rating, mirroring a full-document save.
	ReplaceReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, averageRating float64) error
}

// ClinicalUpdate carries the doctor-authored fields of an appointment; nil
// fields are left untouched, not cleared.
type ClinicalUpdate struct {
	Diagnosis    *string
	Prescription *string
}

type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	// ListByPatient returns the patient's appointments ordered by date
	// ascending, with the doctor and its owning user resolved.
	ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.AppointmentDetail, error)
	// ListByDoctor returns the profile's appointments ordered by date
	// ascending, with the patient resolved.
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.AppointmentDetail, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error)
	UpdateClinicalInfo(ctx context.Context, id primitive.ObjectID, upd ClinicalUpdate) (*models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
