package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AvailabilitySlot struct {
	Day       string `bson:"day" json:"day"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

type Review struct {
	UserID  primitive.ObjectID `bson:"user" json:"user"`
	Rating  int                `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
	Date    time.Time          `bson:"date" json:"date"`
}

// Doctor is a practitioner profile. Each profile is owned by exactly one
// user; AverageRating is derived from Reviews and recomputed on every
// review insert.
type Doctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user" json:"user"`
	Specialization  string             `bson:"specialization" json:"specialization"`
	Experience      int                `bson:"experience" json:"experience"`
	Qualifications  []string           `bson:"qualifications" json:"qualifications"`
	Bio             string             `bson:"bio" json:"bio"`
	ConsultationFee float64            `bson:"consultationFee" json:"consultationFee"`
	Availability    []AvailabilitySlot `bson:"availability" json:"availability"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	AverageRating   float64            `bson:"averageRating" json:"averageRating"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DoctorDetail is a doctor profile with the owning user resolved.
type DoctorDetail struct {
	Doctor   `bson:",inline"`
	UserInfo *UserRef `bson:"userInfo,omitempty" json:"userInfo,omitempty"`
}

// HasReviewFrom reports whether the given user already reviewed this doctor.
func (d *Doctor) HasReviewFrom(userID primitive.ObjectID) bool {
	for _, r := range d.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// RecomputeAverageRating sets AverageRating to the arithmetic mean of all
// review ratings, or zero when there are none.
func (d *Doctor) RecomputeAverageRating() {
	if len(d.Reviews) == 0 {
		d.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range d.Reviews {
		sum += r.Rating
	}
	d.AverageRating = float64(sum) / float64(len(d.Reviews))
}
