package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/fight-events/models"
)

// RegistrationForm is the public fighter/trainer/promoter sign-up form.
type RegistrationForm struct {
	EventID     int                     `json:"eventId"`
	Type        models.RegistrationType `json:"type"`
	FirstName   string                  `json:"firstName"`
	LastName    string                  `json:"lastName"`
	Email       string                  `json:"email"`
	Phone       string                  `json:"phone"`
	DateOfBirth *time.Time              `json:"dateOfBirth,omitempty"`
	Gender      string                  `json:"gender"`
	WeightClass string                  `json:"weightClass"`
	AgeClass    string                  `json:"ageClass"`
	Club        string                  `json:"club"`
	Trainers    []string                `json:"trainers"`
}

func (f RegistrationForm) fields(next *RegistrationForm) map[string]any {
	return map[string]any{
		"eventId":     &next.EventID,
		"type":        &next.Type,
		"firstName":   &next.FirstName,
		"lastName":    &next.LastName,
		"email":       &next.Email,
		"phone":       &next.Phone,
		"dateOfBirth": &next.DateOfBirth,
		"gender":      &next.Gender,
		"weightClass": &next.WeightClass,
		"ageClass":    &next.AgeClass,
		"club":        &next.Club,
	}
}

func (f RegistrationForm) Apply(a Action) (RegistrationForm, error) {
	next := f
	switch a.Type {
	case ActionSetField:
		if err := setField(f.fields(&next), a); err != nil {
			return f, err
		}
	case ActionAddTrainer:
		var name string
		if err := setField(map[string]any{"": &name}, Action{Value: a.Value}); err != nil {
			return f, err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return f, ErrInvalidValue
		}
		next.Trainers = appendCopy(f.Trainers, name)
	case ActionRemoveTrainer:
		list, err := removeAt(f.Trainers, a.Index)
		if err != nil {
			return f, err
		}
		next.Trainers = list
	case ActionReset:
		// тип и событие сохраняются: форма открыта для конкретного события
		return RegistrationForm{EventID: f.EventID, Type: f.Type}, nil
	default:
		return f, ErrUnknownAction
	}
	return next, nil
}

func (f RegistrationForm) Validate(now time.Time) ValidationErrors {
	errs := ValidationErrors{}
	if f.EventID <= 0 {
		errs["eventId"] = "event is required"
	}
	switch f.Type {
	case models.RegistrationFighter, models.RegistrationTrainer, models.RegistrationPromoter:
	default:
		errs["type"] = "type must be fighter, trainer or promoter"
	}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["firstName"] = "first name is required"
	}
	if !ValidEmail(f.Email) {
		errs["email"] = "please enter a valid email address"
	}
	if f.Phone != "" && !ValidPhone(f.Phone) {
		errs["phone"] = "phone number must have 10 to 15 digits"
	}
	if f.DateOfBirth != nil && f.DateOfBirth.After(now) {
		errs["dateOfBirth"] = "date of birth cannot be in the future"
	}
	if f.Type == models.RegistrationFighter && strings.TrimSpace(f.WeightClass) == "" {
		errs["weightClass"] = "weight class is required for fighters"
	}
	return errs
}

func (f RegistrationForm) ToModel() *models.Registration {
	trainers := make([]string, 0, len(f.Trainers))
	trainers = append(trainers, f.Trainers...)
	return &models.Registration{
		EventID:     f.EventID,
		Type:        f.Type,
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Email:       strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:       optional(f.Phone),
		DateOfBirth: f.DateOfBirth,
		Gender:      optional(f.Gender),
		WeightClass: optional(f.WeightClass),
		AgeClass:    optional(f.AgeClass),
		Club:        optional(f.Club),
		Trainers:    trainers,
		Status:      models.RegistrationPending,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(i int) string { return strconv.Itoa(i) }
