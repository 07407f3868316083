package handlers

import (
	"log/slog"

	"github.com/medconnect/booking-api/internal/policy"
	"github.com/medconnect/booking-api/internal/store"
	"github.com/medconnect/booking-api/internal/utils"
)

// Handler bundles the dependencies every route handler needs. Stores and
// policy are interfaces so tests can swap them out.
type Handler struct {
	Users        store.UserStore
	Doctors      store.DoctorStore
	Appointments store.AppointmentStore
	Policy       policy.Policy
	Tokens       *utils.TokenIssuer
	Logger       *slog.Logger
}

func New(
	users store.UserStore,
	doctors store.DoctorStore,
	appointments store.AppointmentStore,
	pol policy.Policy,
	tokens *utils.TokenIssuer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		Doctors:      doctors,
		Appointments: appointments,
		Policy:       pol,
		Tokens:       tokens,
		Logger:       logger,
	}
}
