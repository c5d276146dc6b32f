package store

// Slice binds one field of a composite state to the reducer that owns it.
type Slice[S any] interface {
	apply(state S, action Action) (S, error)
}

type fieldSlice[S, T any] struct {
	get     func(S) T
	set     func(S, T) S
	reducer Reducer[T]
}

func (f *fieldSlice[S, T]) apply(state S, action Action) (S, error) {
	nextField, err := f.reducer(f.get(state), action)
	if err != nil {
		return state, err
	}
	return f.set(state, nextField), nil
}

// Field builds a Slice from a getter/setter pair and the reducer owning
// that field. set must return an updated copy of the composite state, never
// mutate its input.
func Field[S, T any](get func(S) T, set func(S, T) S, reducer Reducer[T]) Slice[S] {
	return &fieldSlice[S, T]{get: get, set: set, reducer: reducer}
}

// Combine builds one reducer over a composite state from independent field
// slices. Every slice observes every action and decides itself whether to
// react. A failing slice fails the whole reduction; the partially updated
// composite is discarded and the dispatch rolls back.
func Combine[S any](slices ...Slice[S]) Reducer[S] {
	return func(state S, action Action) (S, error) {
		nextState := state
		var err error
		for _, slice := range slices {
			if nextState, err = slice.apply(nextState, action); err != nil {
				return state, err
			}
		}
		return nextState, nil
	}
}
