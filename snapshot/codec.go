package snapshot

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// encode uses gob, so snapshot-able state should expose fields.
func encode[S any](state S) ([]byte, error) {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(&state); err != nil {
		return nil, errors.WithMessage(err, "failed to encode state")
	}
	return buffer.Bytes(), nil
}

func decode[S any](raw []byte) (S, error) {
	statePointer := new(S)
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(statePointer); err != nil {
		return *statePointer, errors.WithMessage(err, "failed to decode gob bytes")
	}
	return *statePointer, nil
}
