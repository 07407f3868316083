package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/models"
	"github.com/medconnect/booking-api/internal/policy"
	"github.com/medconnect/booking-api/internal/store"
)

type apptFixture struct {
	patient    policy.Actor
	doctorUser policy.Actor
	stranger   policy.Actor
	profile    *models.Doctor
	appt       *models.Appointment
}

func newApptFixture() apptFixture {
	patient := policy.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	doctorUser := policy.Actor{ID: primitive.NewObjectID(), Role: models.RoleDoctor}
	profile := &models.Doctor{ID: primitive.NewObjectID(), UserID: doctorUser.ID}
	return apptFixture{
		patient:    patient,
		doctorUser: doctorUser,
		stranger:   policy.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser},
		profile:    profile,
		appt: &models.Appointment{
			ID:        primitive.NewObjectID(),
			PatientID: patient.ID,
			DoctorID:  profile.ID,
			Status:    models.StatusPending,
		},
	}
}

func (f apptFixture) expectLoads(env *testEnv) {
	env.appointments.On("GetByID", mock.Anything, f.appt.ID).Return(f.appt, nil)
	env.doctors.On("GetByID", mock.Anything, f.profile.ID).Return(f.profile, nil)
}

func TestCreateAppointmentStartsPending(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()

	env.doctors.On("GetByID", mock.Anything, f.profile.ID).Return(f.profile, nil)
	env.appointments.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Appointment) bool {
		return a.Status == models.StatusPending && a.PatientID == f.patient.ID && a.DoctorID == f.profile.ID
	})).Return(nil)

	w := doJSON(env.router(&f.patient), http.MethodPost, "/api/appointments",
		`{"doctor":"`+f.profile.ID.Hex()+`","date":"2026-09-14","startTime":"10:00","endTime":"10:30","symptoms":"headache"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"pending"`)
	env.appointments.AssertExpectations(t)
}

func TestCreateAppointmentUnknownDoctor(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	ghost := primitive.NewObjectID()
	env.doctors.On("GetByID", mock.Anything, ghost).Return(nil, apperr.NotFound("Doctor not found"))

	w := doJSON(env.router(&f.patient), http.MethodPost, "/api/appointments",
		`{"doctor":"`+ghost.Hex()+`","date":"2026-09-14","startTime":"10:00","endTime":"10:30"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Doctor completes, then the patient's attempt to confirm is rejected;
// the patient may still cancel.
func TestStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	f.expectLoads(env)

	completed := *f.appt
	completed.Status = models.StatusCompleted
	env.appointments.On("UpdateStatus", mock.Anything, f.appt.ID, models.StatusCompleted).Return(&completed, nil)

	w := doJSON(env.router(&f.doctorUser), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/status",
		`{"status":"completed"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env.router(&f.patient), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/status",
		`{"status":"confirmed"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	cancelled := *f.appt
	cancelled.Status = models.StatusCancelled
	env.appointments.On("UpdateStatus", mock.Anything, f.appt.ID, models.StatusCancelled).Return(&cancelled, nil)

	w = doJSON(env.router(&f.patient), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/status",
		`{"status":"cancelled"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()

	w := doJSON(env.router(&f.doctorUser), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/status",
		`{"status":"archived"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	f.expectLoads(env)

	w := doJSON(env.router(&f.stranger), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/status",
		`{"status":"cancelled"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClinicalInfoPartialMerge(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	f.expectLoads(env)

	env.appointments.On("UpdateClinicalInfo", mock.Anything, f.appt.ID, mock.MatchedBy(func(upd store.ClinicalUpdate) bool {
		return upd.Diagnosis != nil && *upd.Diagnosis == "Migraine" && upd.Prescription == nil
	})).Return(f.appt, nil)

	w := doJSON(env.router(&f.doctorUser), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/medical",
		`{"diagnosis":"Migraine"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	env.appointments.AssertExpectations(t)
}

func TestClinicalInfoForbiddenForPatient(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	f.expectLoads(env)

	w := doJSON(env.router(&f.patient), http.MethodPut, "/api/appointments/"+f.appt.ID.Hex()+"/medical",
		`{"diagnosis":"self-diagnosis"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.appointments.AssertNotCalled(t, "UpdateClinicalInfo", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAppointmentByEachParty(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	f.expectLoads(env)
	env.appointments.On("Delete", mock.Anything, f.appt.ID).Return(nil)

	w := doJSON(env.router(&f.patient), http.MethodDelete, "/api/appointments/"+f.appt.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(env.router(&f.doctorUser), http.MethodDelete, "/api/appointments/"+f.appt.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteAppointmentForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()
	f.expectLoads(env)

	w := doJSON(env.router(&f.stranger), http.MethodDelete, "/api/appointments/"+f.appt.ID.Hex(), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.appointments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListUserAppointments(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()

	env.appointments.On("ListByPatient", mock.Anything, f.patient.ID).Return([]models.AppointmentDetail{
		{Appointment: *f.appt, DoctorInfo: &models.DoctorRef{ID: f.profile.ID, Specialization: "Cardiology"}},
	}, nil)

	w := doJSON(env.router(&f.patient), http.MethodGet, "/api/appointments/user", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cardiology")
}

func TestListDoctorAppointmentsRequiresProfile(t *testing.T) {
	env := newTestEnv(t)
	f := newApptFixture()

	env.doctors.On("GetByUserID", mock.Anything, f.doctorUser.ID).Return(f.profile, nil)
	env.appointments.On("ListByDoctor", mock.Anything, f.profile.ID).Return([]models.AppointmentDetail{
		{Appointment: *f.appt, PatientInfo: &models.UserRef{Name: "Ann"}},
	}, nil)

	w := doJSON(env.router(&f.doctorUser), http.MethodGet, "/api/appointments/doctor", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ann")

	env.doctors.On("GetByUserID", mock.Anything, f.stranger.ID).Return(nil, apperr.NotFound("Doctor profile not found"))
	w = doJSON(env.router(&f.stranger), http.MethodGet, "/api/appointments/doctor", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Doctor profile not found")
}
