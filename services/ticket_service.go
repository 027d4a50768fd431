package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/fight-events/forms"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
)

const maxTicketsPerOrder = 10

type PurchaseInput struct {
	EventID    int               `json:"eventId"`
	BuyerName  string            `json:"buyerName"`
	BuyerEmail string            `json:"buyerEmail"`
	Tier       models.TicketTier `json:"tier"`
	Quantity   int               `json:"quantity"`
}

type TicketService interface {
	BuyTickets(ctx context.Context, input PurchaseInput) (*models.Ticket, error)
	ListTickets(ctx context.Context, eventID int) ([]models.Ticket, error)
	CheckIn(ctx context.Context, code string) (*models.Ticket, error)
}

type ticketService struct {
	db         *sql.DB
	eventRepo  repositories.EventRepository
	ticketRepo repositories.TicketRepository
	logger     *slog.Logger
	now        func() time.Time
	newCode    func() string
}

func NewTicketService(
	db *sql.DB,
	eventRepo repositories.EventRepository,
	ticketRepo repositories.TicketRepository,
	logger *slog.Logger,
) TicketService {
	return &ticketService{
		db:         db,
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		logger:     loggerOrDefault(logger),
		now:        time.Now,
		newCode:    uuid.NewString,
	}
}

func validatePurchase(in PurchaseInput) (int64, error) {
	errs := forms.ValidationErrors{}
	if in.EventID <= 0 {
		errs["eventId"] = "event is required"
	}
	if strings.TrimSpace(in.BuyerName) == "" {
		errs["buyerName"] = "buyer name is required"
	}
	if !forms.ValidEmail(in.BuyerEmail) {
		errs["buyerEmail"] = "please enter a valid email address"
	}
	if err := validationError(errs); err != nil {
		return 0, err
	}
	multiplier, ok := models.TierMultiplier(in.Tier)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, in.Tier)
	}
	if in.Quantity < 1 || in.Quantity > maxTicketsPerOrder {
		return 0, ErrInvalidQuantity
	}
	return multiplier, nil
}

// BuyTickets sells tickets under a row lock on the event so concurrent orders
// cannot oversell its capacity. Zero capacity means unlimited.
func (s *ticketService) BuyTickets(ctx context.Context, input PurchaseInput) (*models.Ticket, error) {
	multiplier, err := validatePurchase(input)
	if err != nil {
		return nil, err
	}

	var ticket *models.Ticket
	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		event, err := s.eventRepo.LockForUpdate(ctx, tx, input.EventID)
		if err != nil {
			return err
		}
		if event.Status != models.EventStatusUpcoming && event.Status != models.EventStatusLive {
			return ErrTicketSalesClosed
		}
		if event.TicketCapacity > 0 {
			sold, err := s.ticketRepo.CountSold(ctx, tx, event.ID)
			if err != nil {
				return err
			}
			if sold+input.Quantity > event.TicketCapacity {
				return fmt.Errorf("%w: %d left", ErrTicketsSoldOut, event.TicketCapacity-sold)
			}
		}

		unit := event.TicketPriceCents * multiplier
		t := &models.Ticket{
			EventID:        event.ID,
			Code:           s.newCode(),
			BuyerName:      strings.TrimSpace(input.BuyerName),
			BuyerEmail:     strings.ToLower(strings.TrimSpace(input.BuyerEmail)),
			Tier:           input.Tier,
			Quantity:       input.Quantity,
			UnitPriceCents: unit,
			TotalCents:     unit * int64(input.Quantity),
			Status:         models.TicketPaid,
		}
		if err := s.ticketRepo.Create(ctx, tx, t); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "tickets sold",
		slog.Int("event_id", ticket.EventID), slog.Int("quantity", ticket.Quantity), slog.String("tier", string(ticket.Tier)))
	return ticket, nil
}

func (s *ticketService) ListTickets(ctx context.Context, eventID int) ([]models.Ticket, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, mapEventRepoError(err)
	}
	tickets, err := s.ticketRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets of event %d: %w", eventID, err)
	}
	return tickets, nil
}

func (s *ticketService) CheckIn(ctx context.Context, code string) (*models.Ticket, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(code))
	if err != nil {
		return nil, ErrTicketNotFound
	}
	ticket, err := s.ticketRepo.CheckIn(ctx, parsed.String(), s.now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTicketNotFound):
			return nil, ErrTicketNotFound
		case errors.Is(err, repositories.ErrTicketAlreadyCheckedIn):
			return nil, ErrTicketAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to check in ticket: %w", err)
	}
	return ticket, nil
}
