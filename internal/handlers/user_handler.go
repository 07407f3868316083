package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/models"
	"github.com/medconnect/booking-api/internal/store"
	"github.com/medconnect/booking-api/internal/utils"
)

type RegisterRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"omitempty,oneof=admin user doctor"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender" binding:"omitempty,oneof=male female other"`
}

// Register creates an account and returns it together with a fresh token.
// Only the bcrypt hash of the password is ever stored.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		h.fail(c, apperr.Conflict("User already exists"))
		return
	} else if apperr.CodeOf(err) != apperr.CodeNotFound {
		h.fail(c, err)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.fail(c, apperr.Internal(err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    hashed,
		Role:        role,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Gender:      req.Gender,
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid dateOfBirth format"})
			return
		}
		user.DateOfBirth = &dob
	}

	if err := h.Users.Create(ctx, user); err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.Tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		h.fail(c, apperr.Internal(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the identical message so accounts cannot be enumerated.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, apperr.Unauthorized("Invalid email or password"))
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		h.fail(c, apperr.Unauthorized("Invalid email or password"))
		return
	}

	token, err := h.Tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		h.fail(c, apperr.Internal(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

// GetProfile returns the authenticated user's own record.
func (h *Handler) GetProfile(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=6"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
}

// UpdateProfile applies a partial update to the actor's own record; absent
// fields are left untouched and a supplied password is re-hashed.
func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failBinding(c, err)
		return
	}

	upd := store.UserUpdate{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Gender:      req.Gender,
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			h.fail(c, apperr.Internal(err.Error()))
			return
		}
		upd.Password = &hashed
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid dateOfBirth format"})
			return
		}
		upd.DateOfBirth = &dob
	}

	user, err := h.Users.Update(c.Request.Context(), actor.ID, upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns every account; the password hash is never serialized.
// Admin only, enforced by middleware.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account by id. Admin only, enforced by middleware.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound("User not found"))
		return
	}

	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}
