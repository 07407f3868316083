// Package policy holds the access-control decisions for appointments,
// doctor profiles and reviews. Every method is a pure function of the
// actor and the records it is handed; loading those records and persisting
// the outcome is the caller's job.
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/models"
)

// Actor is the authenticated identity performing a request, as injected by
// the auth middleware. The role is trusted as-is.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// Policy decides who may read, mutate or transition which record.
// apptDoctor is the doctor profile referenced by the appointment (nil when
// it could not be resolved); ownership is established by comparing its user
// field against the actor.
type Policy interface {
	CanViewAppointment(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) error
	CanDeleteAppointment(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) error
	CanSetStatus(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor, newStatus string) error
	CanEditClinicalInfo(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) error
	CanCreateDoctorProfile(actor Actor, existing *models.Doctor) error
	CanManageDoctorProfile(actor Actor, profile *models.Doctor) error
	CanReview(actor Actor, doctor *models.Doctor) error
}

func New() Policy {
	return accessPolicy{}
}

type accessPolicy struct{}

func (accessPolicy) isPatient(actor Actor, appt *models.Appointment) bool {
	return appt.PatientID == actor.ID
}

func (accessPolicy) isDoctorOwner(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) bool {
	return apptDoctor != nil && apptDoctor.ID == appt.DoctorID && apptDoctor.UserID == actor.ID
}

func (p accessPolicy) CanViewAppointment(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) error {
	if p.isPatient(actor, appt) || p.isDoctorOwner(actor, appt, apptDoctor) {
		return nil
	}
	return apperr.Forbidden("Not authorized")
}

func (p accessPolicy) CanDeleteAppointment(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) error {
	return p.CanViewAppointment(actor, appt, apptDoctor)
}

// CanSetStatus permits any of the four statuses for the owning doctor and
// only a cancellation for the patient; the patient restriction wins when the
// actor is both. There is deliberately no transition graph on top of that: a
// doctor moving completed back to pending is legal.
func (p accessPolicy) CanSetStatus(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor, newStatus string) error {
	isDoctor := p.isDoctorOwner(actor, appt, apptDoctor)
	isPatient := p.isPatient(actor, appt)

	if !isDoctor && !isPatient {
		return apperr.Forbidden("Not authorized")
	}
	if isPatient && newStatus != models.StatusCancelled {
		return apperr.Forbidden("Patients can only cancel appointments")
	}
	return nil
}

func (p accessPolicy) CanEditClinicalInfo(actor Actor, appt *models.Appointment, apptDoctor *models.Doctor) error {
	if p.isDoctorOwner(actor, appt, apptDoctor) {
		return nil
	}
	return apperr.Forbidden("Not authorized to update this appointment")
}

func (accessPolicy) CanCreateDoctorProfile(actor Actor, existing *models.Doctor) error {
	if existing != nil {
		return apperr.Conflict("Doctor profile already exists for this user")
	}
	return nil
}

func (accessPolicy) CanManageDoctorProfile(actor Actor, profile *models.Doctor) error {
	if profile.UserID == actor.ID {
		return nil
	}
	return apperr.Forbidden("Not authorized")
}

// CanReview rejects a second review from the same user. The check is
// read-then-write with no uniqueness constraint in storage, so two
// concurrent submissions by one user can both pass it; a known limitation.
func (accessPolicy) CanReview(actor Actor, doctor *models.Doctor) error {
	if doctor.HasReviewFrom(actor.ID) {
		return apperr.Conflict("Doctor already reviewed")
	}
	return nil
}
