package cmd

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/journey/cart/internal/service"
	"github.com/Alturino/journey/internal/config"
	"github.com/Alturino/journey/internal/storage"
)

func TestSessionEvictor(t *testing.T) {
	svc, err := service.NewJourneyService(storage.NewMemory(), config.Handoff{}, prometheus.NewRegistry())
	require.NoError(t, err)

	tests := []struct {
		name string
		cfg  config.Session
	}{
		{name: "given zero interval should return immediately", cfg: config.Session{IdleTimeout: time.Minute}},
		{name: "given a ticking evictor should stop on cancel", cfg: config.Session{IdleTimeout: time.Minute, EvictInterval: time.Millisecond}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, cancel := context.WithCancel(context.Background())
			wg := sync.WaitGroup{}
			wg.Add(1)
			done := make(chan struct{})
			go func() {
				NewSessionEvictor(svc, test.cfg).StartWorker(c, &wg)
				close(done)
			}()

			time.Sleep(10 * time.Millisecond)
			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				assert.Fail(t, "evictor did not stop")
			}
			wg.Wait()
		})
	}
}
