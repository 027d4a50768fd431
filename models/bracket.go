package models

import "time"

type BracketStatus string

const (
	BracketStatusOpen    BracketStatus = "Open"
	BracketStatusStarted BracketStatus = "Started"
	BracketStatusClosed  BracketStatus = "Closed"
)

type MemberRole string

const (
	MemberRoleFighter MemberRole = "fighter"
	MemberRoleTrainer MemberRole = "trainer"
)

// Bracket is a single-elimination grouping of competitors inside one division of an event.
type Bracket struct {
	ID            int           `json:"id" db:"id"`
	EventID       int           `json:"eventId" db:"event_id"`
	BracketNumber int           `json:"bracketNumber" db:"bracket_number"`
	Title         string        `json:"title" db:"title"` // division / weight class
	AgeClass      string        `json:"ageClass" db:"age_class"`
	Sport         string        `json:"sport" db:"sport"`
	RuleStyle     string        `json:"ruleStyle" db:"rule_style"`
	Ring          string        `json:"ring" db:"ring"`
	Status        BracketStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`

	Members []BracketMember `json:"members" db:"-"`
	Bouts   []Bout          `json:"bouts,omitempty" db:"-"`
}

// BracketMember is a competitor placed into a bracket slot.
type BracketMember struct {
	ID             int        `json:"id" db:"id"`
	BracketID      int        `json:"bracketId" db:"bracket_id"`
	RegistrationID *int       `json:"registrationId,omitempty" db:"registration_id"`
	Name           string     `json:"name" db:"name"`
	Image          *string    `json:"image,omitempty" db:"image"`
	Bracket        *int       `json:"bracket" db:"bracket_number"`
	Position       int        `json:"position" db:"position"`
	Role           MemberRole `json:"role" db:"role"`
}

// BracketKey returns the bracket number the member is grouped under.
func (m BracketMember) BracketKey() (int, bool) {
	if m.Bracket == nil || *m.Bracket < 1 {
		return 0, false
	}
	return *m.Bracket, true
}
