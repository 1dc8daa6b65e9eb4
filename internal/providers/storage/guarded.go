package storage

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/browsim/internal/infrastructure/resilience"
)

// Guarded routes calls through a circuit breaker so a failing backend is
// skipped quickly instead of being retried on every intent.
type Guarded struct {
	Store
	breaker *resilience.Breaker
}

// Guard wraps s with breaker. Build the breaker with IsNotFoundSuccess so
// that reading an absent key does not count as a failure, and with
// IsCallerCanceled so that abandoned requests do not count at all.
func Guard(s Store, breaker *resilience.Breaker) *Guarded {
	return &Guarded{Store: s, breaker: breaker}
}

// IsCallerCanceled reports errors caused by the caller's context rather than
// the backend. Use it as the breaker's IsExcluded.
func IsCallerCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsNotFoundSuccess classifies ErrNotFound as a healthy response
func IsNotFoundSuccess(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound)
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := g.breaker.Execute(func() error {
		var err error
		value, err = g.Store.Get(ctx, key)
		return err
	})
	return value, err
}

func (g *Guarded) Set(ctx context.Context, key string, value []byte) error {
	return g.breaker.Execute(func() error {
		return g.Store.Set(ctx, key, value)
	})
}

func (g *Guarded) Delete(ctx context.Context, key string) error {
	return g.breaker.Execute(func() error {
		return g.Store.Delete(ctx, key)
	})
}

// State reports the breaker state
func (g *Guarded) State() resilience.State {
	return g.breaker.State()
}
