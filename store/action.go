package store

// Action describes an intended state transition. Actions are plain data
// records; the kind string discriminates between them and the payload lives
// on the concrete type. Actions carry no behavior and no open resources.
type Action interface {
	Kind() string
}

// InitKind is the kind of the action dispatched once at construction when no
// initial state is supplied.
const InitKind = "@@init"

// Init asks the reducer for its default state.
type Init struct{}

func (Init) Kind() string { return InitKind }
