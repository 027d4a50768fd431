package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/models"
)

func corner(c models.Corner) *models.Corner           { return &c }
func method(m models.FightMethod) *models.FightMethod { return &m }

func TestValidateFightResult(t *testing.T) {
	full := &models.Bout{Rounds: 3, BlueCorner: &models.FighterRef{Name: "Bo"}}
	bye := &models.Bout{Rounds: 3}

	tests := []struct {
		name  string
		bout  *models.Bout
		input FightResultInput
		ok    bool
	}{
		{"ko win", full, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerRed), Method: method(models.MethodKO), Round: intPtr(2)}, true},
		{"decision with scores", full, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerBlue), Method: method(models.MethodDecision), Scores: []models.JudgeScore{{Judge: "A", Red: 28, Blue: 29}}}, true},
		{"no contest", full, FightResultInput{Status: models.FightStatusNoContest}, true},
		{"in progress", full, FightResultInput{Status: models.FightStatusInProgress, Round: intPtr(1)}, true},
		{"completed without winner", full, FightResultInput{Status: models.FightStatusCompleted}, false},
		{"decision without scores", full, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerRed), Method: method(models.MethodDecision)}, false},
		{"blue wins a bye", bye, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerBlue)}, false},
		{"round out of range", full, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerRed), Round: intPtr(4)}, false},
		{"no contest with winner", full, FightResultInput{Status: models.FightStatusNoContest, Winner: corner(models.CornerRed)}, false},
		{"unknown status", full, FightResultInput{Status: "paused"}, false},
		{"unknown method", full, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerRed), Method: method("Forfeit")}, false},
		{"negative score", full, FightResultInput{Status: models.FightStatusCompleted, Winner: corner(models.CornerRed), Method: method(models.MethodPoints), Scores: []models.JudgeScore{{Red: -1}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFightResult(tt.bout, tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidFightResult)
			}
		})
	}
}

func TestBoutService_RecordResult(t *testing.T) {
	repo := newFakeBoutRepo(models.Bout{ID: 5, EventID: 9, Rounds: 3, BlueCorner: &models.FighterRef{Name: "Bo"}})
	hub := &fakeBroadcaster{}
	svc := NewBoutService(repo, hub, nil)
	ctx := context.Background()

	bout, err := svc.RecordResult(ctx, 5, FightResultInput{
		Status: models.FightStatusCompleted,
		Winner: corner(models.CornerBlue),
		Method: method(models.MethodTKO),
		Round:  intPtr(3),
	})
	require.NoError(t, err)
	require.NotNil(t, bout.Fight)
	assert.Equal(t, models.CornerBlue, *bout.Fight.Winner)

	stored, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.MethodTKO, *stored.Fight.Method)

	require.Len(t, hub.sent, 1)
	assert.Equal(t, 9, hub.sent[0].EventID)
	assert.Equal(t, brackets.MessageBoutUpdated, hub.sent[0].Type)

	_, err = svc.RecordResult(ctx, 404, FightResultInput{Status: models.FightStatusNoContest})
	assert.ErrorIs(t, err, ErrBoutNotFound)

	_, err = svc.RecordResult(ctx, 5, FightResultInput{Status: models.FightStatusCompleted})
	assert.ErrorIs(t, err, ErrInvalidFightResult)
	assert.Len(t, hub.sent, 1)
}
