package brackets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/fight-events/models"
)

var ErrNotEnoughMembers = errors.New("not enough members to generate bouts (minimum 2)")

type GenerateParams struct {
	Event   *models.Event
	Bracket *models.Bracket
	// FirstBoutNumber numbers the generated bouts consecutively from here.
	FirstBoutNumber int
	Rounds          int
	RoundDuration   time.Duration
}

// BoutGenerator turns a bracket's members into scheduled bouts.
type BoutGenerator interface {
	Generate(ctx context.Context, params GenerateParams) ([]models.Bout, error)
	GetName() string
}

type FirstRoundGenerator struct{}

func NewFirstRoundGenerator() BoutGenerator {
	return &FirstRoundGenerator{}
}

func (g *FirstRoundGenerator) GetName() string {
	return "SingleEliminationFirstRound"
}

// Generate pairs members in the order given: 1v2, 3v4 and so on. An odd
// member out gets a bout with no blue corner (a bye). No seeding and no later
// rounds are produced.
func (g *FirstRoundGenerator) Generate(ctx context.Context, params GenerateParams) ([]models.Bout, error) {
	if params.Bracket == nil {
		return nil, errors.New("bracket is required")
	}
	members := params.Bracket.Members
	if len(members) < 2 {
		return nil, fmt.Errorf("bracket %d: %w", params.Bracket.BracketNumber, ErrNotEnoughMembers)
	}

	rounds := params.Rounds
	if rounds <= 0 {
		rounds = 3
	}
	duration := params.RoundDuration
	if duration <= 0 {
		duration = 2 * time.Minute
	}
	number := params.FirstBoutNumber
	if number <= 0 {
		number = 1
	}

	var scheduled *time.Time
	if params.Event != nil && !params.Event.StartDate.IsZero() {
		t := params.Event.StartDate
		scheduled = &t
	}

	bouts := make([]models.Bout, 0, (len(members)+1)/2)
	for i := 0; i < len(members); i += 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bout := models.Bout{
			BracketID:         params.Bracket.ID,
			EventID:           params.Bracket.EventID,
			BoutNumber:        number,
			RedCorner:         cornerOf(members[i]),
			Rounds:            rounds,
			RoundDurationSecs: int(duration / time.Second),
			ScheduledAt:       scheduled,
			Fight:             &models.Fight{Status: models.FightStatusScheduled},
		}
		if i+1 < len(members) {
			blue := cornerOf(members[i+1])
			bout.BlueCorner = &blue
		}
		bouts = append(bouts, bout)
		number++
	}
	return bouts, nil
}

func cornerOf(m models.BracketMember) models.FighterRef {
	ref := models.FighterRef{Name: m.Name, Image: m.Image}
	if m.ID > 0 {
		id := m.ID
		ref.MemberID = &id
	}
	return ref
}
