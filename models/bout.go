package models

import "time"

type FightStatus string

const (
	FightStatusScheduled  FightStatus = "scheduled"
	FightStatusInProgress FightStatus = "in_progress"
	FightStatusCompleted  FightStatus = "completed"
	FightStatusNoContest  FightStatus = "no_contest"
)

type Corner string

const (
	CornerRed  Corner = "red"
	CornerBlue Corner = "blue"
)

type FightMethod string

const (
	MethodKO         FightMethod = "KO"
	MethodTKO        FightMethod = "TKO"
	MethodDecision   FightMethod = "Decision"
	MethodSubmission FightMethod = "Submission"
	MethodDQ         FightMethod = "DQ"
	MethodPoints     FightMethod = "Points"
)

// FighterRef is a lightweight reference to a fighter standing in a corner.
type FighterRef struct {
	MemberID *int    `json:"memberId,omitempty"`
	Name     string  `json:"name"`
	Image    *string `json:"image,omitempty"`
}

type JudgeScore struct {
	Judge string `json:"judge"`
	Red   int    `json:"red"`
	Blue  int    `json:"blue"`
}

// Fight is the recorded result of a bout.
type Fight struct {
	Status FightStatus  `json:"status"`
	Winner *Corner      `json:"winner,omitempty"`
	Method *FightMethod `json:"method,omitempty"`
	Round  *int         `json:"round,omitempty"`
	Scores []JudgeScore `json:"scores,omitempty"`
}

// Bout is one scheduled match between two competitors.
type Bout struct {
	ID                int         `json:"id" db:"id"`
	EventID           int         `json:"eventId" db:"event_id"`
	BracketID         int         `json:"bracketId" db:"bracket_id"`
	BoutNumber        int         `json:"boutNumber" db:"bout_number"`
	RedCorner         FighterRef  `json:"redCorner" db:"-"`
	BlueCorner        *FighterRef `json:"blueCorner,omitempty" db:"-"` // nil означает bye
	WeightClassMin    *float64    `json:"weightClassMin,omitempty" db:"weight_min"`
	WeightClassMax    *float64    `json:"weightClassMax,omitempty" db:"weight_max"`
	Rounds            int         `json:"rounds" db:"rounds"`
	RoundDurationSecs int         `json:"roundDurationSecs" db:"round_duration_secs"`
	ScheduledAt       *time.Time  `json:"scheduledAt,omitempty" db:"scheduled_at"`
	Fight             *Fight      `json:"fight,omitempty" db:"fight"`
}

// BracketInfo is the parent bracket context attached to a flattened bout.
type BracketInfo struct {
	BracketNumber int    `json:"bracketNumber"`
	Title         string `json:"title"`
	AgeClass      string `json:"ageClass"`
	Sport         string `json:"sport"`
	RuleStyle     string `json:"ruleStyle"`
	Ring          string `json:"ring"`
}

// FightCardBout is a bout flattened out of its bracket.
type FightCardBout struct {
	Bout
	BracketInfo BracketInfo `json:"bracketInfo"`
}

// BracketKey groups a flattened bout under its parent bracket.
func (b FightCardBout) BracketKey() (int, bool) {
	return b.BracketInfo.BracketNumber, b.BracketInfo.BracketNumber > 0
}
