package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/config"
	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/random"
	"github.com/rovshanmuradov/rogue-runner/internal/schedule"
	"github.com/rovshanmuradov/rogue-runner/internal/storage/memory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("ROGUE_RUNNER_STORAGE_BACKEND", "memory")
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

type closeCounter struct {
	*memory.Store
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestServeAndShutdown(t *testing.T) {
	cfg := testConfig(t)
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sched := schedule.NewManual(clk)
	kv := &closeCounter{Store: memory.New()}

	a := New(cfg, zap.NewNop(),
		WithClock(clk),
		WithRandom(random.NewSequence(0.5)),
		WithScheduler(sched),
		WithKV(kv))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	base := fmt.Sprintf("http://%s", ln.Addr())
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(base + "/healthz")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Dashboard plus four feeds are scheduled.
	assert.Equal(t, 5, sched.Active())

	sched.Advance(30 * time.Minute)
	resp, err = http.Get(base + "/api/dashboard")
	require.NoError(t, err)
	var dash map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dash))
	resp.Body.Close()
	assert.Equal(t, float64(1409), dash["activeUsers"])

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	assert.Equal(t, 1, kv.closed)
	assert.Equal(t, 0, sched.Active())
}

func TestServeFailsOnBadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "sqlite"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = New(cfg, zap.NewNop()).Serve(context.Background(), ln)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage backend "sqlite"`)
}

func TestOpenKVBackends(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	kv, err := openKV(ctx, config.StorageConfig{Backend: config.BackendMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, memory.New(), kv)

	dir := t.TempDir()
	kv, err = openKV(ctx, config.StorageConfig{Backend: config.BackendFile, FileDir: dir}, logger)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	_, err = openKV(ctx, config.StorageConfig{Backend: "nope"}, logger)
	assert.Error(t, err)
}

func TestProviderIsLazy(t *testing.T) {
	cfg := testConfig(t)
	sp := NewServiceProvider(cfg, zap.NewNop(), WithKV(memory.New()))

	assert.Same(t, sp.Projector(), sp.Projector())
	assert.Same(t, sp.Market(), sp.Market())

	s1, err := sp.DashboardStore(context.Background())
	require.NoError(t, err)
	s2, err := sp.DashboardStore(context.Background())
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	b, err := sp.Board()
	require.NoError(t, err)
	assert.Len(t, b.List(), 3)

	require.NoError(t, sp.ShutdownHandler().Shutdown(context.Background()))
}

func shutdownNames(sh *ShutdownHandler) []string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	names := make([]string, 0, len(sh.services))
	for _, s := range sh.services {
		names = append(names, s.name)
	}
	return names
}

func TestProviderRegistersStorageOnce(t *testing.T) {
	cfg := testConfig(t)

	sp := NewServiceProvider(cfg, zap.NewNop())
	kv1, err := sp.KV(context.Background())
	require.NoError(t, err)
	kv2, err := sp.KV(context.Background())
	require.NoError(t, err)
	assert.Same(t, kv1, kv2)
	assert.Equal(t, []string{"storage"}, shutdownNames(sp.ShutdownHandler()))
	require.NoError(t, sp.ShutdownHandler().Shutdown(context.Background()))

	injected := &closeCounter{Store: memory.New()}
	sp = NewServiceProvider(cfg, zap.NewNop(), WithKV(injected))
	_, err = sp.KV(context.Background())
	require.NoError(t, err)
	_, err = sp.KV(context.Background())
	require.NoError(t, err)
	require.NoError(t, sp.ShutdownHandler().Shutdown(context.Background()))
	assert.Equal(t, 1, injected.closed)
}

func TestSimulationHooks(t *testing.T) {
	cfg := testConfig(t)
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sched := schedule.NewManual(clk)

	var advanced [][]dashboard.Metric
	feeds := map[string]int{}
	sp := NewServiceProvider(cfg, zap.NewNop(),
		WithClock(clk),
		WithRandom(random.NewSequence(0.5)),
		WithScheduler(sched),
		WithKV(memory.New()),
		WithAdvanceHook(func(m []dashboard.Metric) { advanced = append(advanced, m) }),
		WithFeedHook(func(name string) { feeds[name]++ }))

	require.NoError(t, sp.StartSimulation(context.Background()))
	sched.Advance(30 * time.Minute)

	require.NotEmpty(t, advanced)
	assert.Contains(t, advanced[0], dashboard.MetricUsers)
	assert.Positive(t, feeds["market"])
	assert.Positive(t, feeds["activity"])

	require.NoError(t, sp.ShutdownHandler().Shutdown(context.Background()))
	assert.Equal(t, 0, sched.Active())
}

func TestServeReturnsListenerErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPAddr = "256.0.0.1:bad"
	err := New(cfg, zap.NewNop(), WithKV(memory.New())).Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
