package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/serializer"
	"github.com/ValentinKolb/wordkv/rpc/server"
)

// recordingSink remembers everything it receives
type recordingSink struct {
	mu       sync.Mutex
	outputs  []string
	statuses []string
	severity []Severity
}

func (r *recordingSink) Output(text string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, text)
	r.severity = append(r.severity, severity)
}

func (r *recordingSink) Status(status string, _ Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingSink) hasStatus(status string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.statuses {
		if s == status {
			return true
		}
	}
	return false
}

func startServer(t *testing.T, poolSize int) *server.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dictionary.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	dict, err := dictionary.Open(path)
	require.NoError(t, err)

	s, err := server.NewServer(common.ServerConfig{
		Endpoint:       "127.0.0.1:0",
		PoolSize:       poolSize,
		DictionaryFile: path,
		PersistMode:    common.PersistOnMutation,
		LogLevel:       "info",
	}, dict, serializer.NewJSONSerializer(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Listen())
	go func() { _ = s.Serve() }()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func configFor(t *testing.T, s *server.Server) common.ClientConfig {
	t.Helper()
	addr := s.Addr().String()
	host, port := splitHostPort(t, addr)
	return common.ClientConfig{Host: host, Port: port, DialTimeoutSecond: 2}
}

func connect(t *testing.T, ctx context.Context, s *server.Server, sink *recordingSink) (*Client, error) {
	t.Helper()
	c, err := Connect(ctx, configFor(t, s), serializer.NewJSONSerializer(), sink, sink)
	if err == nil {
		t.Cleanup(func() { _ = c.Close() })
	}
	return c, err
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestCommands(t *testing.T) {
	s := startServer(t, 2)
	sink := &recordingSink{}
	c, err := connect(t, context.Background(), s, sink)
	require.NoError(t, err)
	assert.True(t, sink.hasStatus(StatusConnected))

	out, err := c.AddNewWord("kiwi", "green fruit, tropical")
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")

	out, err = c.GetMeaning("kiwi")
	require.NoError(t, err)
	assert.Equal(t, "Meaning(s):\n1. green fruit\n2. tropical\n", out)

	out, err = c.AddNewMeaning("kiwi", "Green Fruit")
	require.NoError(t, err)
	assert.Contains(t, out, "ERROR", "case-insensitive duplicate")

	out, err = c.UpdateMeaning("kiwi", "green fruit", "fuzzy")
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")

	out, err = c.RemoveWord("kiwi")
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")

	out, err = c.GetMeaning("kiwi")
	require.NoError(t, err)
	assert.Contains(t, out, "ERROR")

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Len(t, sink.outputs, 6)
	assert.Equal(t, []Severity{
		SeveritySuccess, SeverityInfo, SeverityError, SeveritySuccess, SeveritySuccess, SeverityError,
	}, sink.severity)
}

// TestWaitForWorker tests that Connect blocks while the pool is busy and reports the wait once
func TestWaitForWorker(t *testing.T) {
	s := startServer(t, 1)

	first, err := connect(t, context.Background(), s, &recordingSink{})
	require.NoError(t, err)

	sink := &recordingSink{}
	connected := make(chan error, 1)
	go func() {
		_, err := connect(t, context.Background(), s, sink)
		connected <- err
	}()

	require.Eventually(t, func() bool { return sink.hasStatus(StatusWaiting) }, 2*time.Second, 10*time.Millisecond)
	select {
	case err := <-connected:
		t.Fatalf("Connect returned while all workers were busy: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Close())

	select {
	case err := <-connected:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client was not admitted after a worker became free")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []string{StatusWaiting, StatusConnected}, sink.statuses)
}

func TestConnectCancelled(t *testing.T) {
	s := startServer(t, 1)
	_, err := connect(t, context.Background(), s, &recordingSink{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = connect(t, ctx, s, &recordingSink{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConnectNoServer(t *testing.T) {
	_, err := Connect(context.Background(), common.ClientConfig{Host: "127.0.0.1", Port: 1, DialTimeoutSecond: 1},
		serializer.NewJSONSerializer(), nil, nil)
	assert.Error(t, err)

	_, err = Connect(context.Background(), common.ClientConfig{Host: "", Port: 3000},
		serializer.NewJSONSerializer(), nil, nil)
	assert.Error(t, err)
}

// TestDisconnect tests that a lost connection is reported and later calls fail fast
func TestDisconnect(t *testing.T) {
	s := startServer(t, 1)
	sink := &recordingSink{}
	c, err := connect(t, context.Background(), s, sink)
	require.NoError(t, err)

	require.NoError(t, s.Close())

	_, err = c.GetMeaning("kiwi")
	assert.True(t, errors.Is(err, ErrDisconnected), "got %v", err)
	assert.True(t, sink.hasStatus(StatusDisconnected))

	_, err = c.GetMeaning("kiwi")
	assert.ErrorIs(t, err, ErrDisconnected)
	assert.NoError(t, c.Close())

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Empty(t, sink.outputs)
}

// TestCancelAfterConnect tests that cancelling the connect context after admission
// does not affect later commands
func TestCancelAfterConnect(t *testing.T) {
	s := startServer(t, 1)

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		c, err := connect(t, ctx, s, &recordingSink{})
		cancel()
		require.NoError(t, err)

		out, err := c.GetMeaning("kiwi")
		require.NoError(t, err, "run %d", i)
		assert.Contains(t, out, "not found")
		require.NoError(t, c.Close())
	}
}
