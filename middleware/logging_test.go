package middleware

import (
	"fmt"
	"testing"

	"github.com/kcmaxwell/flux/log"
	"github.com/kcmaxwell/flux/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type bump struct{}

func (bump) Kind() string { return "bump" }

type fail struct{}

func (fail) Kind() string { return "fail" }

func counterReducer(state int, action store.Action) (int, error) {
	switch action.(type) {
	case bump:
		return state + 1, nil
	case fail:
		return state, fmt.Errorf("nope")
	default:
		return state, nil
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := log.FromZap(zap.New(core))
	s, err := store.New(counterReducer,
		store.DefaultOptions[int]().WithMiddleware(Logging(logger)))
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(bump{}))
	require.Error(t, s.Dispatch(fail{}))

	assert.Equal(t, 1, logs.FilterMessage("dispatch").Len())
	assert.Equal(t, 1, logs.FilterMessage("dispatch failed").Len())
}
