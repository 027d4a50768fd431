package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/fight-events/models"
)

type State string

const (
	StateEventsList             State = "eventsList"
	StateEventDetails           State = "eventDetails"
	StateParticipantList        State = "participantList"
	StateBracketView            State = "bracketView"
	StateFightCard              State = "fightCard"
	StateBracketsUnavailable    State = "bracketsUnavailable"
	StateFightCardNotApplicable State = "fightCardNotApplicable"
)

// Site is the screen a View backs. The three sites share the same states but
// route "Load Data" differently.
type Site string

const (
	SiteAdmin      Site = "admin"
	SitePublic     Site = "public"
	SiteTournament Site = "tournament"
)

const (
	MessageBracketsUnavailable = "Brackets are not available for this event yet."
	MessageFightCardNotApplies = "Fight card is only available for Full Contact events."
	MessageNoBrackets          = "No brackets found"
	MessageNoParticipants      = "No participants found"
)

var ErrInvalidTransition = errors.New("invalid view transition")

// View is the navigation state of a bracket screen.
// It is not safe for concurrent use.
type View struct {
	site    Site
	state   State
	history []State

	event     *models.Event
	ageClass  string
	layouts   []Layout
	members   []models.BracketMember
	fightCard []models.FightCardBout

	group   func([]models.BracketMember, map[int]string, Variant) []Layout
	flatten func([]models.Bracket) []models.FightCardBout
}

type ViewOption func(*View)

// WithAssembler replaces the grouping and rendering step.
func WithAssembler(fn func([]models.BracketMember, map[int]string, Variant) []Layout) ViewOption {
	return func(v *View) { v.group = fn }
}

// WithFlattener replaces the bout flattening step.
func WithFlattener(fn func([]models.Bracket) []models.FightCardBout) ViewOption {
	return func(v *View) { v.flatten = fn }
}

func NewView(site Site, opts ...ViewOption) *View {
	v := &View{
		site:    site,
		state:   StateEventsList,
		group:   AssembleLayouts,
		flatten: FlattenBouts,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) State() State                         { return v.state }
func (v *View) Event() *models.Event                 { return v.event }
func (v *View) Layouts() []Layout                    { return v.layouts }
func (v *View) Participants() []models.BracketMember { return v.members }
func (v *View) FightCard() []models.FightCardBout    { return v.fightCard }
func (v *View) AgeClass() string                     { return v.ageClass }

// Message is the static text shown in display-only states, or the empty-state text.
func (v *View) Message() string {
	switch v.state {
	case StateBracketsUnavailable:
		return MessageBracketsUnavailable
	case StateFightCardNotApplicable:
		return MessageFightCardNotApplies
	case StateBracketView:
		if len(v.layouts) == 0 {
			return MessageNoBrackets
		}
	case StateParticipantList:
		if len(v.members) == 0 {
			return MessageNoParticipants
		}
	}
	return ""
}

// Terminal reports whether the current state allows only Back.
func (v *View) Terminal() bool {
	return v.state == StateBracketsUnavailable || v.state == StateFightCardNotApplicable
}

func (v *View) push(next State) {
	v.history = append(v.history, v.state)
	v.state = next
}

func (v *View) transitionError(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, v.state)
}

// SelectEvent opens an event from the events list.
func (v *View) SelectEvent(event *models.Event) error {
	if v.state != StateEventsList {
		return v.transitionError("select event")
	}
	if event == nil {
		return errors.New("event is required")
	}
	v.event = event
	v.push(StateEventDetails)
	return nil
}

// LoadData moves from event details into the site's data state.
func (v *View) LoadData() error {
	if v.state != StateEventDetails {
		return v.transitionError("load data")
	}

	switch v.site {
	case SiteAdmin:
		v.members = MembersOf(v.event.Brackets)
		v.push(StateParticipantList)
	default:
		if !v.event.BracketsVisible() {
			v.layouts = nil
			v.push(StateBracketsUnavailable)
			return nil
		}
		variant := VariantCompetitor
		if v.site == SiteTournament {
			variant = VariantParticipant
		}
		v.render(variant)
		v.push(StateBracketView)
	}
	return nil
}

// ShowBrackets moves from the participant list to the bracket view.
func (v *View) ShowBrackets() error {
	if v.state != StateParticipantList {
		return v.transitionError("show brackets")
	}
	v.render(VariantParticipant)
	v.push(StateBracketView)
	return nil
}

// FilterAgeClass narrows the tournament bracket view to one age class. It
// works on the brackets already loaded with the event.
func (v *View) FilterAgeClass(ageClass string) error {
	if v.state != StateBracketView || v.site != SiteTournament {
		return v.transitionError("filter age class")
	}
	v.ageClass = ageClass
	v.render(VariantParticipant)
	return nil
}

// OpenFightCard shows the flattened bouts of the selected event.
func (v *View) OpenFightCard() error {
	if v.state != StateEventDetails {
		return v.transitionError("open fight card")
	}
	if !v.event.IsFullContact() {
		v.fightCard = nil
		v.push(StateFightCardNotApplicable)
		return nil
	}
	v.fightCard = v.flatten(v.event.Brackets)
	v.push(StateFightCard)
	return nil
}

// Back returns to the previous state. It is a no-op on the events list.
func (v *View) Back() {
	if len(v.history) == 0 {
		return
	}
	prev := v.history[len(v.history)-1]
	v.history = v.history[:len(v.history)-1]
	v.state = prev

	switch prev {
	case StateEventsList:
		v.event = nil
		v.members = nil
		v.layouts = nil
		v.fightCard = nil
		v.ageClass = ""
	case StateEventDetails:
		v.layouts = nil
		v.fightCard = nil
		v.ageClass = ""
	}
}

func (v *View) render(variant Variant) {
	source := FilterByAgeClass(v.event.Brackets, v.ageClass)
	v.layouts = v.group(MembersOf(source), TitlesOf(source), variant)
}
