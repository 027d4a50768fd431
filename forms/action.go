// Package forms models the admin and registration forms as immutable state
// driven by tagged actions.
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
)

type ActionType string

const (
	ActionSetField      ActionType = "SET_FIELD"
	ActionAddTrainer    ActionType = "ADD_TRAINER"
	ActionRemoveTrainer ActionType = "REMOVE_TRAINER"
	ActionAddFighter    ActionType = "ADD_FIGHTER"
	ActionRemoveFighter ActionType = "REMOVE_FIGHTER"
	ActionReset         ActionType = "RESET"
)

var (
	ErrUnknownAction   = errors.New("unknown form action")
	ErrUnknownField    = errors.New("unknown form field")
	ErrInvalidValue    = errors.New("invalid value for form field")
	ErrIndexOutOfRange = errors.New("list index out of range")
)

// Action is one state transition, decoded from
// {"type": "SET_FIELD", "field": "name", "value": "Spring Open"}.
type Action struct {
	Type  ActionType      `json:"type"`
	Field string          `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Index *int            `json:"index,omitempty"`
}

// Form is implemented by every form state. Apply must not mutate the receiver.
type Form[S any] interface {
	Apply(a Action) (S, error)
}

// Reduce returns the state after applying a. On error the returned state is the
// input unchanged.
func Reduce[S Form[S]](state S, a Action) (S, error) {
	next, err := state.Apply(a)
	if err != nil {
		return state, err
	}
	return next, nil
}

// ReduceAll applies actions in order and stops at the first failing one.
func ReduceAll[S Form[S]](state S, actions []Action) (S, error) {
	cur := state
	for i, a := range actions {
		next, err := Reduce(cur, a)
		if err != nil {
			return state, fmt.Errorf("action %d (%s): %w", i, a.Type, err)
		}
		cur = next
	}
	return cur, nil
}

// SetField builds a SET_FIELD action.
func SetField(field string, value any) (Action, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Action{}, err
	}
	return Action{Type: ActionSetField, Field: field, Value: raw}, nil
}

// RemoveAt builds a REMOVE_* action for the list element at index.
func RemoveAt(t ActionType, index int) Action {
	return Action{Type: t, Index: &index}
}

func setField(fields map[string]any, a Action) error {
	target, ok := fields[a.Field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
	}
	if len(a.Value) == 0 {
		return fmt.Errorf("%w: %q has no value", ErrInvalidValue, a.Field)
	}
	if err := json.Unmarshal(a.Value, target); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidValue, a.Field, err)
	}
	return nil
}

func removeAt[T any](list []T, index *int) ([]T, error) {
	if index == nil || *index < 0 || *index >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	i := *index
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

func appendCopy[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v)
}
