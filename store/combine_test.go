package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appState struct {
	Counter int
	Notes   []string
}

func combinedReducer() Reducer[appState] {
	return Combine(
		Field(
			func(s appState) int { return s.Counter },
			func(s appState, counter int) appState { s.Counter = counter; return s },
			counterReducer,
		),
		Field(
			func(s appState) []string { return s.Notes },
			func(s appState, notes []string) appState { s.Notes = notes; return s },
			notesReducer,
		),
	)
}

func TestCombine_SlicesAreIndependent(t *testing.T) {
	s, err := New(combinedReducer(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(increment{}))
	assert.Equal(t, appState{Counter: 1}, s.GetState())

	require.NoError(t, s.Dispatch(addNote{Text: "buy milk"}))
	assert.Equal(t, appState{Counter: 1, Notes: []string{"buy milk"}}, s.GetState())
}

func TestCombine_EverySliceObservesEveryAction(t *testing.T) {
	var counterActions, notesActions []string
	combined := Combine(
		Field(
			func(s appState) int { return s.Counter },
			func(s appState, counter int) appState { s.Counter = counter; return s },
			func(state int, action Action) (int, error) {
				counterActions = append(counterActions, action.Kind())
				return state, nil
			},
		),
		Field(
			func(s appState) []string { return s.Notes },
			func(s appState, notes []string) appState { s.Notes = notes; return s },
			func(state []string, action Action) ([]string, error) {
				notesActions = append(notesActions, action.Kind())
				return state, nil
			},
		),
	)

	_, err := combined(appState{}, increment{})
	require.NoError(t, err)
	_, err = combined(appState{}, addNote{Text: "n"})
	require.NoError(t, err)

	assert.Equal(t, []string{"increment", "add_note"}, counterActions)
	assert.Equal(t, []string{"increment", "add_note"}, notesActions)
}

func TestCombine_UnknownActionIdentity(t *testing.T) {
	initialState := appState{Counter: 3, Notes: []string{"a"}}
	s, err := New(combinedReducer(), DefaultOptions[appState]().WithInitialState(initialState))
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(unknown{}))
	assert.Equal(t, initialState, s.GetState())
}

func TestCombine_SliceFailureRollsBack(t *testing.T) {
	initialState := appState{Counter: 3, Notes: []string{"a"}}
	s, err := New(combinedReducer(), DefaultOptions[appState]().WithInitialState(initialState))
	require.NoError(t, err)

	err = s.Dispatch(failing{})
	var reducerError *ReducerError
	require.ErrorAs(t, err, &reducerError)
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, initialState, s.GetState())
}
