package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/models"
	"github.com/medconnect/booking-api/internal/store"
)

// ListDoctors returns every doctor profile with the owning user resolved.
// Public, no authentication.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Doctors.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// GetDoctor returns one profile by id. Public.
func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("Doctor not found"))
		return
	}

	doctor, err := h.Doctors.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// GetAvailability returns only the availability windows of a profile.
// Public. The windows are informational; bookings are not checked against
// them.
func (h *Handler) GetAvailability(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("Doctor not found"))
		return
	}

	doctor, err := h.Doctors.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor.Availability)
}

type AvailabilitySlotRequest struct {
	Day       string `json:"day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type CreateDoctorRequest struct {
	Specialization  string                    `json:"specialization" binding:"required"`
	Experience      *int                      `json:"experience" binding:"required"`
	Qualifications  []string                  `json:"qualifications" binding:"required"`
	Bio             string                    `json:"bio" binding:"required"`
	ConsultationFee *float64                  `json:"consultationFee" binding:"required"`
	Availability    []AvailabilitySlotRequest `json:"availability" binding:"required,dive"`
}

// CreateDoctorProfile creates the actor's practitioner profile and promotes
// their role to doctor. A second profile for the same user is rejected.
// The role write follows the profile insert and is not compensated if it
// fails.
func (h *Handler) CreateDoctorProfile(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.Doctors.GetByUserID(ctx, actor.ID)
	if err != nil && apperr.CodeOf(err) != apperr.CodeNotFound {
		h.fail(c, err)
		return
	}
	if err := h.Policy.CanCreateDoctorProfile(actor, existing); err != nil {
		h.fail(c, err)
		return
	}

	doctor := &models.Doctor{
		ID:              primitive.NewObjectID(),
		UserID:          actor.ID,
		Specialization:  req.Specialization,
		Experience:      *req.Experience,
		Qualifications:  req.Qualifications,
		Bio:             req.Bio,
		ConsultationFee: *req.ConsultationFee,
		Availability:    toSlots(req.Availability),
	}
	if err := h.Doctors.Create(ctx, doctor); err != nil {
		h.fail(c, err)
		return
	}

	role := models.RoleDoctor
	if _, err := h.Users.Update(ctx, actor.ID, store.UserUpdate{Role: &role}); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

type UpdateDoctorRequest struct {
	Specialization  *string                   `json:"specialization"`
	Experience      *int                      `json:"experience"`
	Qualifications  []string                  `json:"qualifications"`
	Bio             *string                   `json:"bio"`
	ConsultationFee *float64                  `json:"consultationFee"`
	Availability    []AvailabilitySlotRequest `json:"availability" binding:"omitempty,dive"`
}

// UpdateDoctorProfile partially updates the actor's own profile; absent
// fields are left untouched.
func (h *Handler) UpdateDoctorProfile(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Doctors.GetByUserID(ctx, actor.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Policy.CanManageDoctorProfile(actor, profile); err != nil {
		h.fail(c, err)
		return
	}

	upd := store.DoctorUpdate{
		Specialization:  req.Specialization,
		Experience:      req.Experience,
		Qualifications:  req.Qualifications,
		Bio:             req.Bio,
		ConsultationFee: req.ConsultationFee,
	}
	if req.Availability != nil {
		upd.Availability = toSlots(req.Availability)
	}

	doctor, err := h.Doctors.UpdateByUserID(ctx, actor.ID, upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// AddReview appends a review to a doctor and recomputes the average rating
// over all reviews. A user may review a given doctor only once.
func (h *Handler) AddReview(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("Doctor not found"))
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	doctor, err := h.Doctors.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Policy.CanReview(actor, doctor); err != nil {
		h.fail(c, err)
		return
	}

	doctor.Reviews = append(doctor.Reviews, models.Review{
		UserID:  actor.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
		Date:    time.Now().UTC(),
	})
	doctor.RecomputeAverageRating()

	if err := h.Doctors.ReplaceReviews(ctx, doctor.ID, doctor.Reviews, doctor.AverageRating); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added"})
}

func toSlots(reqs []AvailabilitySlotRequest) []models.AvailabilitySlot {
	slots := make([]models.AvailabilitySlot, 0, len(reqs))
	for _, r := range reqs {
		slots = append(slots, models.AvailabilitySlot{Day: r.Day, StartTime: r.StartTime, EndTime: r.EndTime})
	}
	return slots
}
