package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses. A new booking always starts out pending.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Appointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID    primitive.ObjectID `bson:"patient" json:"patient"`
	DoctorID     primitive.ObjectID `bson:"doctor" json:"doctor"`
	Date         time.Time          `bson:"date" json:"date"`
	StartTime    string             `bson:"startTime" json:"startTime"`
	EndTime      string             `bson:"endTime" json:"endTime"`
	Status       string             `bson:"status" json:"status"`
	Symptoms     string             `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Diagnosis    string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Prescription string             `bson:"prescription,omitempty" json:"prescription,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DoctorRef is the reduced view of a doctor embedded in a patient's
// appointment listing, with the owning user resolved alongside it.
type DoctorRef struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Specialization  string             `bson:"specialization" json:"specialization"`
	ConsultationFee float64            `bson:"consultationFee" json:"consultationFee"`
	User            UserRef            `bson:"user" json:"user"`
}

// AppointmentDetail is an appointment with its reference fields resolved.
// DoctorInfo is populated on patient-side listings, PatientInfo on
// doctor-side listings.
type AppointmentDetail struct {
	Appointment `bson:",inline"`
	DoctorInfo  *DoctorRef `bson:"doctorInfo,omitempty" json:"doctorInfo,omitempty"`
	PatientInfo *UserRef   `bson:"patientInfo,omitempty" json:"patientInfo,omitempty"`
}
