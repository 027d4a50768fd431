package forms

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/models"
)

func mustSet(t *testing.T, field string, value any) Action {
	t.Helper()
	a, err := SetField(field, value)
	require.NoError(t, err)
	return a
}

func intPtr(i int) *int { return &i }

func TestReduce_SetFieldDoesNotMutateInput(t *testing.T) {
	start := NewEventForm(EventForm{Name: "Spring Open"})

	next, err := Reduce(start, mustSet(t, "name", "Autumn Cup"))
	require.NoError(t, err)

	assert.Equal(t, "Autumn Cup", next.Name)
	assert.Equal(t, "Spring Open", start.Name)
}

func TestReduce_DecodedFromJSON(t *testing.T) {
	var actions []Action
	payload := `[
		{"type": "SET_FIELD", "field": "format", "value": "Full Contact"},
		{"type": "SET_FIELD", "field": "ticketCapacity", "value": 300},
		{"type": "ADD_FIGHTER", "value": {"name": "Ali", "bracket": 1}},
		{"type": "ADD_FIGHTER", "value": {"name": "Bo", "bracket": 1}}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &actions))

	form, err := ReduceAll(EventForm{}, actions)
	require.NoError(t, err)
	assert.Equal(t, "Full Contact", form.Format)
	assert.Equal(t, 300, form.TicketCapacity)
	require.Len(t, form.Fighters, 2)
	assert.Equal(t, "Bo", form.Fighters[1].Name)
}

func TestReduce_Errors(t *testing.T) {
	form := EventForm{Name: "x"}

	_, err := Reduce(form, mustSet(t, "nope", 1))
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = Reduce(form, mustSet(t, "ticketCapacity", "many"))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Reduce(form, Action{Type: ActionAddTrainer, Value: json.RawMessage(`"Coach"`)})
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = Reduce(form, RemoveAt(ActionRemoveFighter, 0))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	same, err := Reduce(form, Action{Type: "BOGUS"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, form, same)
}

func TestReduceAll_StopsAtFirstErrorAndKeepsInput(t *testing.T) {
	form := EventForm{Name: "orig"}
	_, err := ReduceAll(form, []Action{
		mustSet(t, "name", "changed"),
		{Type: "BOGUS"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action 1")
	assert.Equal(t, "orig", form.Name)
}

func TestEventForm_RemoveFighterCopiesSlice(t *testing.T) {
	form := EventForm{Fighters: []FighterEntry{{Name: "Ali"}, {Name: "Bo"}, {Name: "Cruz"}}}

	next, err := Reduce(form, RemoveAt(ActionRemoveFighter, 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"Ali", "Cruz"}, names(next.Fighters))
	assert.Equal(t, []string{"Ali", "Bo", "Cruz"}, names(form.Fighters))
}

func TestEventForm_Reset(t *testing.T) {
	base := NewEventForm(EventForm{Name: "Base", Fighters: []FighterEntry{{Name: "Ali"}}})
	edited, err := ReduceAll(base, []Action{
		mustSet(t, "name", "Edited"),
		{Type: ActionAddFighter, Value: json.RawMessage(`{"name":"Bo"}`)},
	})
	require.NoError(t, err)

	reset, err := Reduce(edited, Action{Type: ActionReset})
	require.NoError(t, err)
	assert.Equal(t, "Base", reset.Name)
	assert.Equal(t, []string{"Ali"}, names(reset.Fighters))

	blank, err := Reduce(EventForm{Name: "no base"}, Action{Type: ActionReset})
	require.NoError(t, err)
	assert.Equal(t, "", blank.Name)
}

func TestEventForm_Validate(t *testing.T) {
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	valid := EventForm{
		Name: "Open", Format: models.FormatFullContact, Sport: "Kickboxing",
		StartDate: start, EndDate: start.Add(4 * time.Hour),
		Fighters: []FighterEntry{{Name: "Ali", Bracket: intPtr(1)}},
	}
	assert.Empty(t, valid.Validate())
	assert.NoError(t, valid.Validate().Err())

	bad := valid
	bad.Name = " "
	bad.EndDate = start.Add(-time.Hour)
	bad.TicketCapacity = -1
	bad.Fighters = []FighterEntry{{Name: "", Bracket: nil}}

	errs := bad.Validate()
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "endDate")
	assert.Contains(t, errs, "ticketCapacity")
	assert.Contains(t, errs, "fighters[0].name")
	assert.Contains(t, errs, "fighters[0].bracket")
	assert.Error(t, errs.Err())
}

func TestEventForm_Brackets(t *testing.T) {
	form := EventForm{Fighters: []FighterEntry{
		{Name: "Ali", Bracket: intPtr(2)},
		{Name: "Bo", Bracket: intPtr(1)},
		{Name: "Orphan"},
		{Name: "Cruz", Bracket: intPtr(2), Position: 5},
	}}

	got := form.Brackets()
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].BracketNumber)
	assert.Equal(t, []string{"Ali", "Cruz"}, []string{got[0].Members[0].Name, got[0].Members[1].Name})
	assert.Equal(t, 1, got[0].Members[0].Position)
	assert.Equal(t, 5, got[0].Members[1].Position)
	assert.Equal(t, 1, got[1].BracketNumber)
}

func TestEventFormFromModel_RoundTrip(t *testing.T) {
	desc := "Main event"
	e := &models.Event{
		Name: "Open", Description: &desc, Format: models.FormatFullContact,
		Brackets: []models.Bracket{{
			BracketNumber: 3,
			Members:       []models.BracketMember{{Name: "Ali", Position: 1}},
		}},
	}
	form := EventFormFromModel(e)
	require.Len(t, form.Fighters, 1)
	assert.Equal(t, 3, *form.Fighters[0].Bracket)

	var out models.Event
	form.ApplyTo(&out)
	assert.Equal(t, "Open", out.Name)
	require.NotNil(t, out.Description)
	assert.Equal(t, "Main event", *out.Description)
	assert.Nil(t, out.Venue)
}

func TestRegistrationForm_Trainers(t *testing.T) {
	form := RegistrationForm{EventID: 1, Type: models.RegistrationFighter}

	form, err := ReduceAll(form, []Action{
		{Type: ActionAddTrainer, Value: json.RawMessage(`"Coach A"`)},
		{Type: ActionAddTrainer, Value: json.RawMessage(`"Coach B"`)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Coach A", "Coach B"}, form.Trainers)

	removed, err := Reduce(form, RemoveAt(ActionRemoveTrainer, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Coach B"}, removed.Trainers)
	assert.Equal(t, []string{"Coach A", "Coach B"}, form.Trainers)

	_, err = Reduce(form, Action{Type: ActionAddTrainer, Value: json.RawMessage(`"  "`)})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Reduce(form, Action{Type: ActionAddFighter, Value: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrUnknownAction)

	reset, err := Reduce(form, Action{Type: ActionReset})
	require.NoError(t, err)
	assert.Equal(t, RegistrationForm{EventID: 1, Type: models.RegistrationFighter}, reset)
}

func TestRegistrationForm_Validate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	dob := now.AddDate(-20, 0, 0)
	valid := RegistrationForm{
		EventID: 1, Type: models.RegistrationFighter, FirstName: "Ali",
		Email: "ali@example.com", Phone: "+1 (555) 123-4567", DateOfBirth: &dob, WeightClass: "-71kg",
	}
	assert.Empty(t, valid.Validate(now))

	future := now.AddDate(0, 0, 1)
	bad := RegistrationForm{Type: "coach", Email: "ali@", Phone: "123", DateOfBirth: &future}
	errs := bad.Validate(now)
	for _, field := range []string{"eventId", "type", "firstName", "email", "phone", "dateOfBirth"} {
		assert.Contains(t, errs, field)
	}

	noWeight := valid
	noWeight.WeightClass = ""
	assert.Contains(t, noWeight.Validate(now), "weightClass")

	trainer := valid
	trainer.Type = models.RegistrationTrainer
	trainer.WeightClass = ""
	assert.Empty(t, trainer.Validate(now))
}

func TestRegistrationForm_ToModel(t *testing.T) {
	form := RegistrationForm{
		EventID: 4, Type: models.RegistrationTrainer, FirstName: " Ali ", Email: " Ali@Example.com ",
		Club: "", Trainers: []string{"Coach"},
	}
	reg := form.ToModel()
	assert.Equal(t, "Ali", reg.FirstName)
	assert.Equal(t, "ali@example.com", reg.Email)
	assert.Nil(t, reg.Club)
	assert.Equal(t, models.RegistrationPending, reg.Status)

	reg.Trainers[0] = "changed"
	assert.Equal(t, "Coach", form.Trainers[0])
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("0123456789"))
	assert.True(t, ValidPhone("+44 20 7946 0958"))
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("1234567890123456"))
}

func TestValidationErrors_ErrorIsSorted(t *testing.T) {
	errs := ValidationErrors{"b": "two", "a": "one"}
	assert.Equal(t, "validation failed: a: one; b: two", errs.Error())
}

func names(list []FighterEntry) []string {
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = f.Name
	}
	return out
}
