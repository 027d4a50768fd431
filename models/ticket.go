package models

import "time"

type TicketTier string

const (
	TierGeneral  TicketTier = "general"
	TierRingside TicketTier = "ringside"
	TierVIP      TicketTier = "vip"
)

type TicketStatus string

const (
	TicketReserved  TicketStatus = "reserved"
	TicketPaid      TicketStatus = "paid"
	TicketCanceled  TicketStatus = "canceled"
	TicketCheckedIn TicketStatus = "checked_in"
)

// Ticket is a spectator purchase for an event.
type Ticket struct {
	ID             int          `json:"id" db:"id"`
	EventID        int          `json:"eventId" db:"event_id"`
	Code           string       `json:"code" db:"code"`
	BuyerName      string       `json:"buyerName" db:"buyer_name"`
	BuyerEmail     string       `json:"buyerEmail" db:"buyer_email"`
	Tier           TicketTier   `json:"tier" db:"tier"`
	Quantity       int          `json:"quantity" db:"quantity"`
	UnitPriceCents int64        `json:"unitPriceCents" db:"unit_price_cents"`
	TotalCents     int64        `json:"totalCents" db:"total_cents"`
	Status         TicketStatus `json:"status" db:"status"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
	CheckedInAt    *time.Time   `json:"checkedInAt,omitempty" db:"checked_in_at"`
}

// TierMultiplier scales the event base price per tier.
func TierMultiplier(t TicketTier) (int64, bool) {
	switch t {
	case TierGeneral:
		return 1, true
	case TierRingside:
		return 2, true
	case TierVIP:
		return 4, true
	default:
		return 0, false
	}
}
