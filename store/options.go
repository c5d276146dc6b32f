package store

import (
	"github.com/kcmaxwell/flux/log"
)

type Options[S any] struct {
	logger log.Logger
	//initial state, the reducer's answer to Init is used when nil
	initialState *S
	middlewares  []Middleware
}

func (o *Options[S]) WithLogger(logger log.Logger) *Options[S] {
	o.logger = logger
	return o
}

func (o *Options[S]) WithInitialState(state S) *Options[S] {
	o.initialState = &state
	return o
}

func (o *Options[S]) WithMiddleware(middlewares ...Middleware) *Options[S] {
	o.middlewares = append(o.middlewares, middlewares...)
	return o
}

func DefaultOptions[S any]() *Options[S] {
	return &Options[S]{logger: log.Nop()}
}
