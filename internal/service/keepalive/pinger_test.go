package keepalive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/hannan/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

func TestPingCountsFailuresAndResets(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	p := NewPinger(config.KeepAliveConfig{URL: srv.URL, Timeout: time.Second, FailureThreshold: 3}, zap.New(core))

	for i := 1; i <= 3; i++ {
		require.Error(t, p.Ping(context.Background()))
		assert.Equal(t, i, p.Failures())
	}
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	// a fourth failure still warns; the pinger is never disabled
	require.Error(t, p.Ping(context.Background()))
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	healthy.Store(true)
	require.NoError(t, p.Ping(context.Background()))
	assert.Equal(t, 0, p.Failures())
}

func TestPingTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := NewPinger(config.KeepAliveConfig{URL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	err := p.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, p.Failures())
}
