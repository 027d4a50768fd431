package models

import "time"

// EventStatus представляет статусы события, соответствующие ENUM в БД.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusLive      EventStatus = "live"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCanceled  EventStatus = "canceled"
)

// FormatFullContact is the only event format that produces a fight card.
const FormatFullContact = "Full Contact"

// Event представляет спортивное событие (турнир или вечер боёв).
type Event struct {
	ID               int         `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	Description      *string     `json:"description,omitempty" db:"description"`
	Format           string      `json:"format" db:"format"`
	Sport            string      `json:"sport" db:"sport"`
	SanctioningBody  *string     `json:"sanctioningBody,omitempty" db:"sanctioning_body"`
	Venue            *string     `json:"venue,omitempty" db:"venue"`
	StartDate        time.Time   `json:"startDate" db:"start_date"`
	EndDate          time.Time   `json:"endDate" db:"end_date"`
	Status           EventStatus `json:"status" db:"status"`
	PosterURL        *string     `json:"posterUrl,omitempty" db:"poster_url"`
	LogoURL          *string     `json:"logoUrl,omitempty" db:"logo_url"`
	PublishBrackets  bool        `json:"publishBrackets" db:"publish_brackets"`
	ShowBrackets     bool        `json:"showBrackets" db:"show_brackets"`
	TicketPriceCents int64       `json:"ticketPriceCents" db:"ticket_price_cents"`
	TicketCapacity   int         `json:"ticketCapacity" db:"ticket_capacity"`
	PromoterID       *int        `json:"promoterId,omitempty" db:"promoter_id"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`

	// Связанные сущности (не мапятся напрямую)
	Brackets []Bracket `json:"brackets,omitempty" db:"-"`
}

// BracketsVisible reports whether the public may see this event's brackets.
func (e *Event) BracketsVisible() bool {
	return e.PublishBrackets && e.ShowBrackets
}

// IsFullContact reports whether the event format produces a fight card.
func (e *Event) IsFullContact() bool {
	return e.Format == FormatFullContact
}
