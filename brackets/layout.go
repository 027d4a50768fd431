package brackets

import (
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/fight-events/models"
)

// Variant selects what a member card shows.
type Variant string

const (
	// VariantCompetitor shows photo and name.
	VariantCompetitor Variant = "competitor"
	// VariantParticipant also shows the member's role.
	VariantParticipant Variant = "participant"
)

// LatticeSlots is the member count the connector lattice is drawn for.
const LatticeSlots = 4

// lattice is the decorative connector drawing for a four-slot single
// elimination bracket. Even rows line up with member slots.
var lattice = []string{
	"──┐      ",
	"  ├───┐  ",
	"──┘   │  ",
	"      ├──",
	"──┐   │  ",
	"  ├───┘  ",
	"──┘      ",
}

type Header struct {
	BracketNumber int    `json:"bracketNumber"`
	Title         string `json:"title,omitempty"`
	Unassigned    bool   `json:"unassigned,omitempty"`
}

type Card struct {
	Slot     int    `json:"slot"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Role     string `json:"role,omitempty"`
}

// Layout is the positioned rendering of one bracket.
type Layout struct {
	Header  Header   `json:"header"`
	Lattice []string `json:"lattice"`
	Cards   []Card   `json:"cards"`
	// Mismatched is set when the member count differs from LatticeSlots.
	// The lattice is still drawn for four slots.
	Mismatched bool `json:"mismatched"`
}

// NewLayout builds the layout for one bracket. Every member gets exactly one
// card, in input order.
func NewLayout(header Header, members []models.BracketMember, variant Variant) Layout {
	cards := make([]Card, 0, len(members))
	for i, m := range members {
		card := Card{
			Slot:     i + 1,
			Position: m.Position,
			Name:     m.Name,
		}
		if m.Image != nil {
			card.Image = *m.Image
		}
		if variant == VariantParticipant {
			card.Role = string(m.Role)
			if card.Role == "" {
				card.Role = string(models.MemberRoleFighter)
			}
		}
		cards = append(cards, card)
	}

	drawn := make([]string, len(lattice))
	copy(drawn, lattice)

	return Layout{
		Header:     header,
		Lattice:    drawn,
		Cards:      cards,
		Mismatched: len(members) != LatticeSlots,
	}
}

func (h Header) String() string {
	if h.Unassigned {
		return "Unassigned"
	}
	if h.Title == "" {
		return fmt.Sprintf("Bracket %d", h.BracketNumber)
	}
	return fmt.Sprintf("Bracket %d - %s", h.BracketNumber, h.Title)
}

func (c Card) label() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s", c.Position, c.Name)
	if c.Role != "" {
		fmt.Fprintf(&b, " (%s)", c.Role)
	}
	if c.Image == "" {
		b.WriteString(" [no photo]")
	}
	return b.String()
}

// RenderText writes a plain-text rendering of the layout.
func (l Layout) RenderText(w io.Writer) error {
	width := 0
	for _, c := range l.Cards {
		if n := len([]rune(c.label())); n > width {
			width = n
		}
	}

	var b strings.Builder
	b.WriteString(l.Header.String())
	b.WriteByte('\n')

	for row, line := range l.Lattice {
		label := ""
		if row%2 == 0 {
			if slot := row / 2; slot < len(l.Cards) {
				label = l.Cards[slot].label()
			}
		}
		fmt.Fprintf(&b, "%s%s %s\n", label, strings.Repeat(" ", width-len([]rune(label))), line)
	}

	// Members beyond the lattice are listed underneath.
	if len(l.Cards) > LatticeSlots {
		for _, c := range l.Cards[LatticeSlots:] {
			b.WriteString(c.label())
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// AssembleLayouts groups members by bracket and renders each group.
// titles supplies optional division titles keyed by bracket number.
func AssembleLayouts(members []models.BracketMember, titles map[int]string, variant Variant) []Layout {
	groups := GroupByBracket(members)
	layouts := make([]Layout, 0, len(groups))
	for _, g := range groups {
		header := Header{BracketNumber: g.Key, Unassigned: g.Unassigned}
		if !g.Unassigned {
			header.Title = titles[g.Key]
		}
		layouts = append(layouts, NewLayout(header, g.Members, variant))
	}
	return layouts
}
