package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wfcheck/internal/core"
	"wfcheck/internal/output"
)

// syncBuffer guards a buffer shared between the watcher goroutine and the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, out *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), substr) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, output:\n%s", substr, out.String())
}

func TestWatcherRevalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ci.yml")
	if err := os.WriteFile(path, []byte("jobs: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := &syncBuffer{}
	printer, _ := output.New("text", out)
	w := New(core.NewRunner(1, nil, zerolog.Nop()), printer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{path}) }()

	waitFor(t, out, "Missing required field: name")

	valid := "name: CI\non: push\njobs:\n  a:\n    runs-on: x\n    steps: [s]\n"
	if err := os.WriteFile(path, []byte(valid), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, out, "✅ "+path+" - Valid")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	printer, _ := output.New("text", &bytes.Buffer{})
	w := New(core.NewRunner(1, nil, zerolog.Nop()), printer, zerolog.Nop())
	err := w.Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "ci.yml")})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
