package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/models"
	"github.com/medconnect/booking-api/internal/store"
)

type AppointmentStore struct {
	col *mongo.Collection
}

var _ store.AppointmentStore = (*AppointmentStore)(nil)

func (s *AppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, appt); err != nil {
		return apperr.Internal(err.Error())
	}
	return nil
}

func (s *AppointmentStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&appt); err != nil {
		return nil, notFoundOr(err, "Appointment not found")
	}
	return &appt, nil
}

// ListByPatient resolves each appointment's doctor and, through it, the
// doctor's owning user, ordered by date ascending.
func (s *AppointmentStore) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.AppointmentDetail, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "patient", Value: patientID}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: doctorsCollection},
			{Key: "localField", Value: "doctor"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "doctorInfo"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$doctorInfo"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "doctorInfo.user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "doctorOwner"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "doctorInfo.user", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$doctorOwner", 0}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "doctorOwner", Value: 0}}}},
	}
	return s.aggregate(ctx, pipeline)
}

// ListByDoctor resolves each appointment's patient, ordered by date ascending.
func (s *AppointmentStore) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.AppointmentDetail, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "doctor", Value: doctorID}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "patient"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "patientInfo"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$patientInfo"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	return s.aggregate(ctx, pipeline)
}

func (s *AppointmentStore) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.AppointmentDetail, error) {
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	defer cursor.Close(ctx)

	appointments := make([]models.AppointmentDetail, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return appointments, nil
}

func (s *AppointmentStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}

	var appt models.Appointment
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&appt); err != nil {
		return nil, notFoundOr(err, "Appointment not found")
	}
	return &appt, nil
}

func (s *AppointmentStore) UpdateClinicalInfo(ctx context.Context, id primitive.ObjectID, upd store.ClinicalUpdate) (*models.Appointment, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Diagnosis != nil {
		set["diagnosis"] = *upd.Diagnosis
	}
	if upd.Prescription != nil {
		set["prescription"] = *upd.Prescription
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var appt models.Appointment
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&appt); err != nil {
		return nil, notFoundOr(err, "Appointment not found")
	}
	return &appt, nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err.Error())
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Appointment not found")
	}
	return nil
}
