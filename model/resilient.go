package model

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ResilientOptions configure the breaker and limiter wrapped around a Client.
type ResilientOptions struct {
	// BreakerName labels the circuit breaker in logs and metrics.
	BreakerName string
	// ConsecutiveFailures before the breaker opens.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// RequestsPerSecond caps the sustained model call rate. Zero disables
	// rate limiting.
	RequestsPerSecond float64
	// Burst is the limiter burst size.
	Burst int
}

// ResilientClient wraps another Client with a circuit breaker and an optional
// rate limiter. Provider outages trip the breaker so in-flight tasks fail
// fast instead of piling up on a dead endpoint. Failures surface as
// *TransportError, keeping the package error taxonomy intact for callers.
type ResilientClient struct {
	next    Client
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewResilientClient wraps next with default breaker settings (open after 5
// consecutive failures, probe after 30s) and a 10 req/s limiter.
func NewResilientClient(next Client, optFns ...func(o *ResilientOptions)) *ResilientClient {
	opts := ResilientOptions{
		BreakerName:         "model-client",
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		RequestsPerSecond:   10,
		Burst:               5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    opts.BreakerName,
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > opts.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// Missing credentials and malformed payloads are not provider
			// outages; they must not trip the breaker.
			var malformed *MalformedError
			return err == nil || errors.Is(err, ErrUnavailable) || errors.As(err, &malformed)
		},
	})

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	}

	return &ResilientClient{next: next, cb: cb, limiter: limiter}
}

// Complete implements Client.
func (c *ResilientClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Err: err}
		}
	}

	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.next.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &TransportError{Err: err}
		}
		return "", err
	}
	return out.(string), nil
}
