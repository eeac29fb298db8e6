package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest writes schema to a temporary file named name, loads it and
// returns the app along with its output and log buffers.
func SetupAppTest(t *testing.T, name, schema string) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(schema), 0o644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	cfg, err := NewConfig(Config{SchemaPath: path, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("invalid config: %v", err)
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	testApp, err := NewApp(out, logs, cfg, nil)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("CALCFORM_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
