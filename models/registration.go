package models

import "time"

type RegistrationType string

const (
	RegistrationFighter  RegistrationType = "fighter"
	RegistrationTrainer  RegistrationType = "trainer"
	RegistrationPromoter RegistrationType = "promoter"
)

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// Registration is a fighter, trainer or promoter signed up for an event.
type Registration struct {
	ID                    int                `json:"id" db:"id"`
	EventID               int                `json:"eventId" db:"event_id"`
	Type                  RegistrationType   `json:"type" db:"type"`
	FirstName             string             `json:"firstName" db:"first_name"`
	LastName              string             `json:"lastName" db:"last_name"`
	Email                 string             `json:"email" db:"email"`
	Phone                 *string            `json:"phone,omitempty" db:"phone"`
	DateOfBirth           *time.Time         `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender                *string            `json:"gender,omitempty" db:"gender"`
	WeightClass           *string            `json:"weightClass,omitempty" db:"weight_class"`
	AgeClass              *string            `json:"ageClass,omitempty" db:"age_class"`
	Club                  *string            `json:"club,omitempty" db:"club"`
	ProfilePhotoURL       *string            `json:"profilePhoto,omitempty" db:"profile_photo_url"`
	LicenseCertificateURL *string            `json:"licenseCertificate,omitempty" db:"license_certificate_url"`
	Trainers              []string           `json:"trainers,omitempty" db:"trainers"`
	Status                RegistrationStatus `json:"status" db:"status"`
	CreatedAt             time.Time          `json:"createdAt" db:"created_at"`
}

// FullName joins first and last name the way cards display it.
func (r *Registration) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}
