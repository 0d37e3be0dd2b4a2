package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"tasks/abc_fix-bug.md", fsnotify.Write, true},
		{"tasks/abc_fix-bug.md", fsnotify.Remove, true},
		{"tasks/abc_fix-bug.md", fsnotify.Chmod, false},
		{"config.yml", fsnotify.Write, true},
		{"tasks.db-wal", fsnotify.Write, true},
		{"activity.jsonl", fsnotify.Write, false},
		{"tasks/.lock", fsnotify.Create, false},
		{"tasks/.abc.md.tmp", fsnotify.Create, false},
	}
	for _, tt := range tests {
		if got := Relevant(fsnotify.Event{Name: tt.name, Op: tt.op}); got != tt.want {
			t.Errorf("Relevant(%s %s) = %v, want %v", tt.op, tt.name, got, tt.want)
		}
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 10)
	w, err := New([]string{dir}, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	for i := range 3 {
		name := filepath.Join(dir, "task"+string(rune('a'+i))+".md")
		if err := os.WriteFile(name, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	select {
	case <-fired:
		t.Error("burst produced more than one callback")
	case <-time.After(3 * debounceDelay):
	}
}
