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

type DoctorStore struct {
	col *mongo.Collection
}

var _ store.DoctorStore = (*DoctorStore)(nil)

// lookupOwner expands the profile's user reference into userInfo.
func lookupOwner() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "userInfo"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$userInfo"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func (s *DoctorStore) Create(ctx context.Context, doctor *models.Doctor) error {
	now := time.Now().UTC()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	if doctor.Reviews == nil {
		doctor.Reviews = make([]models.Review, 0)
	}

	if _, err := s.col.InsertOne(ctx, doctor); err != nil {
		return apperr.Internal(err.Error())
	}
	return nil
}

func (s *DoctorStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		return nil, notFoundOr(err, "Doctor not found")
	}
	return &doctor, nil
}

func (s *DoctorStore) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.col.FindOne(ctx, bson.M{"user": userID}).Decode(&doctor); err != nil {
		return nil, notFoundOr(err, "Doctor profile not found")
	}
	return &doctor, nil
}

func (s *DoctorStore) ListAll(ctx context.Context) ([]models.DoctorDetail, error) {
	cursor, err := s.col.Aggregate(ctx, lookupOwner())
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	defer cursor.Close(ctx)

	doctors := make([]models.DoctorDetail, 0)
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return doctors, nil
}

func (s *DoctorStore) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.DoctorDetail, error) {
	pipeline := append(mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}, lookupOwner()...)

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	defer cursor.Close(ctx)

	var doctors []models.DoctorDetail
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	if len(doctors) == 0 {
		return nil, apperr.NotFound("Doctor not found")
	}
	return &doctors[0], nil
}

func (s *DoctorStore) UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd store.DoctorUpdate) (*models.Doctor, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Specialization != nil {
		set["specialization"] = *upd.Specialization
	}
	if upd.Experience != nil {
		set["experience"] = *upd.Experience
	}
	if upd.Qualifications != nil {
		set["qualifications"] = upd.Qualifications
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.ConsultationFee != nil {
		set["consultationFee"] = *upd.ConsultationFee
	}
	if upd.Availability != nil {
		set["availability"] = upd.Availability
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doctor models.Doctor
	err := s.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, bson.M{"$set": set}, opts).Decode(&doctor)
	if err != nil {
		return nil, notFoundOr(err, "Doctor profile not found")
	}
	return &doctor, nil
}

func (s *DoctorStore) ReplaceReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, averageRating float64) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reviews":       reviews,
		"averageRating": averageRating,
		"updatedAt":     time.Now().UTC(),
	}})
	if err != nil {
		return apperr.Internal(err.Error())
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Doctor not found")
	}
	return nil
}
