package forms

import (
	"strings"
	"time"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/models"
)

// FighterEntry is one roster line of the event form.
type FighterEntry struct {
	Name     string            `json:"name"`
	Image    *string           `json:"image,omitempty"`
	Bracket  *int              `json:"bracket"`
	Position int               `json:"position,omitempty"`
	Role     models.MemberRole `json:"role,omitempty"`
	RegID    *int              `json:"registrationId,omitempty"`
}

func (f FighterEntry) BracketKey() (int, bool) {
	if f.Bracket == nil || *f.Bracket < 1 {
		return 0, false
	}
	return *f.Bracket, true
}

// EventForm is the admin create/edit event form.
type EventForm struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Format           string         `json:"format"`
	Sport            string         `json:"sport"`
	SanctioningBody  string         `json:"sanctioningBody"`
	Venue            string         `json:"venue"`
	StartDate        time.Time      `json:"startDate"`
	EndDate          time.Time      `json:"endDate"`
	TicketPriceCents int64          `json:"ticketPriceCents"`
	TicketCapacity   int            `json:"ticketCapacity"`
	PublishBrackets  bool           `json:"publishBrackets"`
	ShowBrackets     bool           `json:"showBrackets"`
	Fighters         []FighterEntry `json:"fighters"`

	initial *EventForm
}

// NewEventForm returns a form whose RESET goes back to base.
func NewEventForm(base EventForm) EventForm {
	base.initial = nil
	snapshot := base
	snapshot.Fighters = append([]FighterEntry(nil), base.Fighters...)
	base.initial = &snapshot
	return base
}

// EventFormFromModel seeds a form with an existing event and its bracket members.
func EventFormFromModel(e *models.Event) EventForm {
	f := EventForm{
		Name:             e.Name,
		Description:      deref(e.Description),
		Format:           e.Format,
		Sport:            e.Sport,
		SanctioningBody:  deref(e.SanctioningBody),
		Venue:            deref(e.Venue),
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		TicketPriceCents: e.TicketPriceCents,
		TicketCapacity:   e.TicketCapacity,
		PublishBrackets:  e.PublishBrackets,
		ShowBrackets:     e.ShowBrackets,
	}
	for _, m := range brackets.MembersOf(e.Brackets) {
		f.Fighters = append(f.Fighters, FighterEntry{
			Name:     m.Name,
			Image:    m.Image,
			Bracket:  m.Bracket,
			Position: m.Position,
			Role:     m.Role,
			RegID:    m.RegistrationID,
		})
	}
	return NewEventForm(f)
}

func (f EventForm) fields(next *EventForm) map[string]any {
	return map[string]any{
		"name":             &next.Name,
		"description":      &next.Description,
		"format":           &next.Format,
		"sport":            &next.Sport,
		"sanctioningBody":  &next.SanctioningBody,
		"venue":            &next.Venue,
		"startDate":        &next.StartDate,
		"endDate":          &next.EndDate,
		"ticketPriceCents": &next.TicketPriceCents,
		"ticketCapacity":   &next.TicketCapacity,
		"publishBrackets":  &next.PublishBrackets,
		"showBrackets":     &next.ShowBrackets,
	}
}

func (f EventForm) Apply(a Action) (EventForm, error) {
	next := f
	switch a.Type {
	case ActionSetField:
		if err := setField(f.fields(&next), a); err != nil {
			return f, err
		}
	case ActionAddFighter:
		var entry FighterEntry
		if err := setField(map[string]any{"": &entry}, Action{Value: a.Value}); err != nil {
			return f, err
		}
		next.Fighters = appendCopy(f.Fighters, entry)
	case ActionRemoveFighter:
		list, err := removeAt(f.Fighters, a.Index)
		if err != nil {
			return f, err
		}
		next.Fighters = list
	case ActionReset:
		if f.initial == nil {
			return EventForm{}, nil
		}
		return NewEventForm(*f.initial), nil
	default:
		return f, ErrUnknownAction
	}
	return next, nil
}

func (f EventForm) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "event name is required"
	}
	if strings.TrimSpace(f.Format) == "" {
		errs["format"] = "format is required"
	}
	if strings.TrimSpace(f.Sport) == "" {
		errs["sport"] = "sport is required"
	}
	if f.StartDate.IsZero() {
		errs["startDate"] = "start date is required"
	}
	if f.EndDate.IsZero() {
		errs["endDate"] = "end date is required"
	} else if !f.StartDate.IsZero() && f.EndDate.Before(f.StartDate) {
		errs["endDate"] = "end date must not be before start date"
	}
	if f.TicketPriceCents < 0 {
		errs["ticketPriceCents"] = "ticket price must not be negative"
	}
	if f.TicketCapacity < 0 {
		errs["ticketCapacity"] = "ticket capacity must not be negative"
	}
	for i, fighter := range f.Fighters {
		if strings.TrimSpace(fighter.Name) == "" {
			errs[fighterField(i, "name")] = "fighter name is required"
		}
		if _, ok := fighter.BracketKey(); !ok {
			errs[fighterField(i, "bracket")] = "bracket number must be 1 or greater"
		}
	}
	return errs
}

// ApplyTo copies the form's scalar fields onto e.
func (f EventForm) ApplyTo(e *models.Event) {
	e.Name = strings.TrimSpace(f.Name)
	e.Description = optional(f.Description)
	e.Format = f.Format
	e.Sport = f.Sport
	e.SanctioningBody = optional(f.SanctioningBody)
	e.Venue = optional(f.Venue)
	e.StartDate = f.StartDate
	e.EndDate = f.EndDate
	e.TicketPriceCents = f.TicketPriceCents
	e.TicketCapacity = f.TicketCapacity
	e.PublishBrackets = f.PublishBrackets
	e.ShowBrackets = f.ShowBrackets
}

// Brackets groups the roster into brackets by bracket number. Entries without
// a valid bracket number are skipped; Validate reports them.
func (f EventForm) Brackets() []models.Bracket {
	groups := brackets.GroupByBracket(f.Fighters)
	out := make([]models.Bracket, 0, len(groups))
	for _, g := range groups {
		if g.Unassigned {
			continue
		}
		b := models.Bracket{BracketNumber: g.Key, Status: models.BracketStatusOpen}
		for _, entry := range g.Members {
			b.Members = append(b.Members, models.BracketMember{
				RegistrationID: entry.RegID,
				Name:           strings.TrimSpace(entry.Name),
				Image:          entry.Image,
				Position:       entry.Position,
				Role:           entry.Role,
			})
		}
		brackets.AssignPositions(b.Members)
		out = append(out, b)
	}
	return out
}

func fighterField(i int, name string) string {
	return "fighters[" + itoa(i) + "]." + name
}
