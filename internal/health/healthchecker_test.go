package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type flakyPinger struct {
	fail atomic.Bool
}

func (p *flakyPinger) HealthPing(ctx context.Context) error {
	if p.fail.Load() {
		return errors.New("ping failed")
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPingChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &flakyPinger{}
	hc := NewPingChecker("store", p, zerolog.Nop(), time.Second)
	assert.Equal(t, "store", hc.Name())
	assert.False(t, hc.IsHealthy(), "checkers start unhealthy")

	go hc.Start(ctx, 10*time.Millisecond)
	waitFor(t, hc.IsHealthy)

	p.fail.Store(true)
	waitFor(t, func() bool { return !hc.IsHealthy() })

	p.fail.Store(false)
	waitFor(t, hc.IsHealthy)
}

func TestServiceHealthChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := &flakyPinger{}
	bad := &flakyPinger{}
	bad.fail.Store(true)

	c1 := NewPingChecker("store", good, zerolog.Nop(), time.Second)
	c2 := NewPingChecker("verifier", bad, zerolog.Nop(), time.Second)
	go c1.Start(ctx, 10*time.Millisecond)
	go c2.Start(ctx, 10*time.Millisecond)

	svc := NewServiceHealthChecker(zerolog.Nop(), c1, c2)
	go svc.Start(ctx, 10*time.Millisecond)

	waitFor(t, c1.IsHealthy)
	assert.False(t, svc.IsHealthy(), "one unhealthy dependency keeps the service down")

	bad.fail.Store(false)
	waitFor(t, svc.IsHealthy)
}
