package storage

import (
	"context"
	"errors"
	"time"
)

// ObserveFunc receives the outcome of every store operation
type ObserveFunc func(op string, err error, duration time.Duration)

// Instrumented reports operation timings to an observer
type Instrumented struct {
	Store
	observe ObserveFunc
}

// Instrument wraps s so each call is reported to observe. A nil observe returns s.
func Instrument(s Store, observe ObserveFunc) Store {
	if observe == nil {
		return s
	}
	return &Instrumented{Store: s, observe: observe}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := i.Store.Get(ctx, key)
	observed := err
	if errors.Is(err, ErrNotFound) {
		// a missing key is an answer, not a failure
		observed = nil
	}
	i.observe("get", observed, time.Since(start))
	return value, err
}

func (i *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.Store.Set(ctx, key, value)
	i.observe("set", err, time.Since(start))
	return err
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, key)
	i.observe("delete", err, time.Since(start))
	return err
}
