package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/models"
	"github.com/medconnect/booking-api/internal/store"
)

// ListUserAppointments returns the actor's bookings as a patient, date
// ascending, with doctor details resolved.
func (h *Handler) ListUserAppointments(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	appointments, err := h.Appointments.ListByPatient(c.Request.Context(), actor.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// ListDoctorAppointments returns the bookings referencing the actor's
// doctor profile, date ascending, with patient details resolved. 404 when
// the actor has no profile.
func (h *Handler) ListDoctorAppointments(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Doctors.GetByUserID(ctx, actor.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	appointments, err := h.Appointments.ListByDoctor(ctx, profile.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

type CreateAppointmentRequest struct {
	Doctor    string `json:"doctor" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Symptoms  string `json:"symptoms"`
	Notes     string `json:"notes"`
}

// CreateAppointment books the actor with a doctor. The booking starts out
// pending and succeeds whenever the doctor reference resolves; the time
// range is not checked against availability or existing bookings.
func (h *Handler) CreateAppointment(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(req.Doctor)
	if err != nil {
		h.fail(c, apperr.NotFound("Doctor not found"))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Doctors.GetByID(ctx, doctorID); err != nil {
		h.fail(c, err)
		return
	}

	appt := &models.Appointment{
		ID:        primitive.NewObjectID(),
		PatientID: actor.ID,
		DoctorID:  doctorID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    models.StatusPending,
		Symptoms:  req.Symptoms,
		Notes:     req.Notes,
	}
	if err := h.Appointments.Create(ctx, appt); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// UpdateAppointmentStatus transitions a booking. The policy allows the
// owning doctor any target status and the patient only a cancellation.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("Appointment not found"))
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	appt, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	apptDoctor, err := h.apptDoctor(c, appt)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Policy.CanSetStatus(actor, appt, apptDoctor, req.Status); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.Appointments.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type ClinicalInfoRequest struct {
	Diagnosis    *string `json:"diagnosis"`
	Prescription *string `json:"prescription"`
}

// UpdateClinicalInfo lets the owning doctor set diagnosis and prescription.
// Absent fields keep their stored value; they are never cleared.
func (h *Handler) UpdateClinicalInfo(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("Appointment not found"))
		return
	}

	var req ClinicalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	appt, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	apptDoctor, err := h.apptDoctor(c, appt)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Policy.CanEditClinicalInfo(actor, appt, apptDoctor); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.Appointments.UpdateClinicalInfo(ctx, id, store.ClinicalUpdate{
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteAppointment removes a booking; either party to it may do so.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("Appointment not found"))
		return
	}

	ctx := c.Request.Context()
	appt, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	apptDoctor, err := h.apptDoctor(c, appt)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Policy.CanDeleteAppointment(actor, appt, apptDoctor); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Appointments.Delete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment removed"})
}

// apptDoctor loads the doctor profile an appointment references for the
// policy's ownership checks. A dangling reference yields nil rather than an
// error; the policy then falls back to the patient-side checks.
func (h *Handler) apptDoctor(c *gin.Context, appt *models.Appointment) (*models.Doctor, error) {
	doctor, err := h.Doctors.GetByID(c.Request.Context(), appt.DoctorID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return nil, nil
		}
		return nil, err
	}
	return doctor, nil
}
