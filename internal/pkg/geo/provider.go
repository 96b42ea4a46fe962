package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Reading is a location fix reported by a device.
type Reading struct {
	Point          Point
	AccuracyMeters float64
}

// Provider yields the current location of the checking-in device.
// Implementations may block until the fix is available.
type Provider interface {
	Locate(ctx context.Context) (Reading, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Reading, error)

func (f ProviderFunc) Locate(ctx context.Context) (Reading, error) {
	return f(ctx)
}

// StaticProvider returns a reading the client already acquired, or ErrPermissionDenied
// when the client sent none.
type StaticProvider struct {
	Reading *Reading
}

func (p StaticProvider) Locate(ctx context.Context) (Reading, error) {
	if p.Reading == nil {
		return Reading{}, ErrPermissionDenied
	}
	return *p.Reading, nil
}

// Acquire asks the provider for a fix, bounded by timeout. Every failure is reported as
// ErrGeolocationUnavailable wrapping the cause.
func Acquire(ctx context.Context, provider Provider, timeout time.Duration) (Reading, error) {
	if provider == nil {
		return Reading{}, fmt.Errorf("%w: %w", ErrGeolocationUnavailable, ErrPermissionDenied)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		reading Reading
		err     error
	}
	done := make(chan result, 1)
	go func() {
		r, err := provider.Locate(ctx)
		done <- result{reading: r, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Reading{}, fmt.Errorf("%w: %w", ErrGeolocationUnavailable, ErrTimeout)
		}
		return Reading{}, fmt.Errorf("%w: %w", ErrGeolocationUnavailable, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return Reading{}, fmt.Errorf("%w: %w", ErrGeolocationUnavailable, res.err)
		}
		if err := res.reading.Point.Validate(); err != nil {
			return Reading{}, fmt.Errorf("%w: %w", ErrGeolocationUnavailable, err)
		}
		return res.reading, nil
	}
}
