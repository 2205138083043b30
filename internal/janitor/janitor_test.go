package janitor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestReservations(t *testing.T) {
	r := NewReservations()

	if !r.Reserve("/music/a.mp3") {
		t.Fatal("first Reserve() = false")
	}
	if r.Reserve("/music/./a.mp3") {
		t.Error("Reserve() of an equivalent path = true, want false")
	}
	if !r.Reserved("/music/a.mp3") {
		t.Error("Reserved() = false after Reserve")
	}

	r.Reserve("/music/b.mp3")
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0] != "/music/a.mp3" || snap[1] != "/music/b.mp3" {
		t.Errorf("Snapshot() = %v", snap)
	}

	r.Release("/music/a.mp3")
	r.Release("/music/unknown.mp3")
	if r.Reserved("/music/a.mp3") {
		t.Error("Reserved() = true after Release")
	}
}

func TestReservationsConcurrent(t *testing.T) {
	r := NewReservations()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := filepath.Join("/tmp", string(rune('a'+i%26)))
			r.Reserve(p)
			r.Reserved(p)
			r.Snapshot()
			r.Release(p)
		}(i)
	}
	wg.Wait()

	if n := len(r.Snapshot()); n != 0 {
		t.Errorf("%d paths left reserved", n)
	}
}

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.mp3")
	fresh := filepath.Join(dir, "fresh.mp3")
	reserved := filepath.Join(dir, "reserved.mp3")
	staging := filepath.Join(dir, ".staging")

	writeAged(t, old, 2*time.Hour)
	writeAged(t, fresh, time.Minute)
	writeAged(t, reserved, 2*time.Hour)
	if err := os.Mkdir(staging, 0755); err != nil {
		t.Fatal(err)
	}

	res := NewReservations()
	res.Reserve(reserved)

	j := New(dir, time.Minute, time.Hour, res, nil)
	if n := j.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}

	tests := []struct {
		path string
		want bool
	}{
		{old, false},
		{fresh, true},
		{reserved, true},
		{staging, true},
	}
	for _, tt := range tests {
		_, err := os.Stat(tt.path)
		if exists := err == nil; exists != tt.want {
			t.Errorf("%s exists = %v, want %v", filepath.Base(tt.path), exists, tt.want)
		}
	}
}

func TestSweepMissingDir(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "missing"), time.Minute, 0, nil, nil)
	if n := j.Sweep(); n != 0 {
		t.Errorf("Sweep() = %d, want 0", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "old.mp3"), time.Hour)

	j := New(dir, 10*time.Millisecond, time.Minute, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(dir, "old.mp3")); os.IsNotExist(err) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("file was not swept")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
