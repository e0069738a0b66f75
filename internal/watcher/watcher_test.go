package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/registrar/internal/watcher"
)

func startWatcher(t *testing.T, dir string, files ...string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		Files:       files,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return onChange
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enrollments.csv")
	require.NoError(t, os.WriteFile(path, []byte("S01,CS101\n"), 0o600))

	onChange := startWatcher(t, dir, "enrollments.csv")

	// Rapid writes should coalesce into a single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("S0%d,CS101\n", i)), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	otherPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0o600))

	onChange := startWatcher(t, dir, "students.csv", "courses.csv")

	require.NoError(t, os.WriteFile(otherPath, []byte("other content"), 0o600))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_NotifiesOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	onChange := startWatcher(t, dir, "courses.csv")

	tmp := filepath.Join(dir, ".courses.csv.tmp.123")
	require.NoError(t, os.WriteFile(tmp, []byte("Lab,CS101L,Programming Lab,2,T01\n"), 0o600))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "courses.csv")))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for renamed-in file")
	}
}

func TestWatcher_WatchesSQLiteWAL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "registrar.db"), []byte("db"), 0o600))

	onChange := startWatcher(t, dir, "registrar.db", "registrar.db-wal")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "registrar.db-wal"), []byte("wal data"), 0o600))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for WAL file write")
	}
}

func startOwnWriteWatcher(t *testing.T, dir string, ownWrites func() time.Time, files ...string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		Dir:            dir,
		Files:          files,
		DebounceDur:    50 * time.Millisecond,
		OwnWrites:      ownWrites,
		OwnWriteWindow: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err)
	return onChange
}

func TestWatcher_IgnoresOwnWrites(t *testing.T) {
	dir := t.TempDir()
	onChange := startOwnWriteWatcher(t, dir, time.Now, "enrollments.csv")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "enrollments.csv"), []byte("S01,CS101\n"), 0o600))

	select {
	case <-onChange:
		t.Fatal("should not notify for a write this process just made")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_NotifiesAfterOwnWriteWindow(t *testing.T) {
	tests := []struct {
		name string
		last time.Time
	}{
		{name: "never wrote", last: time.Time{}},
		{name: "wrote long ago", last: time.Now().Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			onChange := startOwnWriteWatcher(t, dir, func() time.Time { return tt.last }, "students.csv")

			require.NoError(t, os.WriteFile(filepath.Join(dir, "students.csv"), []byte("S03,Neha,n@x,BDes\n"), 0o600))

			select {
			case <-onChange:
			case <-time.After(500 * time.Millisecond):
				t.Fatal("expected notification for an external write")
			}
		})
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "missing"), "students.csv"))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	w, err := watcher.New(watcher.DefaultConfig(dir, "students.csv"))
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop(), "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/data", "students.csv", "courses.csv")

	assert.Equal(t, "/data", cfg.Dir)
	assert.Equal(t, []string{"students.csv", "courses.csv"}, cfg.Files)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDur)
	assert.Equal(t, watcher.DefaultOwnWriteWindow, cfg.OwnWriteWindow)
	assert.Nil(t, cfg.OwnWrites)
}
