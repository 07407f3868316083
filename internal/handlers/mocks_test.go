package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/middleware"
	"github.com/medconnect/booking-api/internal/models"
	"github.com/medconnect/booking-api/internal/policy"
	"github.com/medconnect/booking-api/internal/store"
	"github.com/medconnect/booking-api/internal/utils"
)

func testIssuer(t *testing.T) *utils.TokenIssuer {
	t.Helper()
	issuer, err := utils.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return issuer
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, id primitive.ObjectID, upd store.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, upd)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockDoctorStore struct{ mock.Mock }

func (m *mockDoctorStore) Create(ctx context.Context, doctor *models.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *mockDoctorStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDoctorStore) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDoctorStore) ListAll(ctx context.Context) ([]models.DoctorDetail, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.([]models.DoctorDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDoctorStore) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.DoctorDetail, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.DoctorDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDoctorStore) UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd store.DoctorUpdate) (*models.Doctor, error) {
	args := m.Called(ctx, userID, upd)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDoctorStore) ReplaceReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, averageRating float64) error {
	return m.Called(ctx, id, reviews, averageRating).Error(0)
}

type mockAppointmentStore struct{ mock.Mock }

func (m *mockAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

func (m *mockAppointmentStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentStore) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.AppointmentDetail, error) {
	args := m.Called(ctx, patientID)
	if a := args.Get(0); a != nil {
		return a.([]models.AppointmentDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentStore) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.AppointmentDetail, error) {
	args := m.Called(ctx, doctorID)
	if a := args.Get(0); a != nil {
		return a.([]models.AppointmentDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	args := m.Called(ctx, id, status)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentStore) UpdateClinicalInfo(ctx context.Context, id primitive.ObjectID, upd store.ClinicalUpdate) (*models.Appointment, error) {
	args := m.Called(ctx, id, upd)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

// testEnv wires a Handler to mock stores behind the real route table, with
// the auth middleware replaced by one injecting the given actor.
type testEnv struct {
	users        *mockUserStore
	doctors      *mockDoctorStore
	appointments *mockAppointmentStore
	handler      *Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:        &mockUserStore{},
		doctors:      &mockDoctorStore{},
		appointments: &mockAppointmentStore{},
	}
	env.handler = New(
		env.users, env.doctors, env.appointments,
		policy.New(), testIssuer(t),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

func (e *testEnv) router(actor *policy.Actor) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextUserID, actor.ID.Hex())
			c.Set(middleware.ContextRole, actor.Role)
		}
		c.Next()
	}

	users := r.Group("/api/users")
	users.POST("/register", e.handler.Register)
	users.POST("/login", e.handler.Login)
	users.GET("/profile", auth, e.handler.GetProfile)
	users.PUT("/profile", auth, e.handler.UpdateProfile)
	users.GET("", auth, e.handler.ListUsers)
	users.DELETE("/:id", auth, e.handler.DeleteUser)

	doctors := r.Group("/api/doctors")
	doctors.GET("", e.handler.ListDoctors)
	doctors.GET("/:id", e.handler.GetDoctor)
	doctors.GET("/:id/availability", e.handler.GetAvailability)
	doctors.POST("", auth, e.handler.CreateDoctorProfile)
	doctors.PUT("", auth, e.handler.UpdateDoctorProfile)
	doctors.POST("/:id/reviews", auth, e.handler.AddReview)

	appointments := r.Group("/api/appointments")
	appointments.Use(auth)
	appointments.GET("/user", e.handler.ListUserAppointments)
	appointments.GET("/doctor", e.handler.ListDoctorAppointments)
	appointments.POST("", e.handler.CreateAppointment)
	appointments.PUT("/:id/status", e.handler.UpdateAppointmentStatus)
	appointments.PUT("/:id/medical", e.handler.UpdateClinicalInfo)
	appointments.DELETE("/:id", e.handler.DeleteAppointment)

	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
