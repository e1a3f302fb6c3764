package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a credential record. Users and admins share this shape but
// live in separate collections; email uniqueness holds per collection.
// The OTP fields are placeholders persisted empty on signup.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"password"`
	OTP          string             `bson:"otp" json:"otp"`
	OTPExpiresAt string             `bson:"otpExpiresAt" json:"otpExpiresAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
