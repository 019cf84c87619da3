package activity

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	log := NewLog(0)

	log.Record("alice", Event{Kind: KindFileCreate, Repo: "notes", Path: "a.md"})
	log.Record("alice", Event{Kind: KindFileEdit, Repo: "notes", Path: "a.md"})
	log.Record("bob", Event{Kind: KindRepoSelect, Repo: "recipes"})

	recent := log.Recent("alice", 10)
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d events, want 2", len(recent))
	}
	// Newest first
	if recent[0].Kind != KindFileEdit || recent[1].Kind != KindFileCreate {
		t.Errorf("Recent order wrong: %v then %v", recent[0].Kind, recent[1].Kind)
	}
	if recent[0].UserID != "alice" {
		t.Errorf("UserID = %q, want alice", recent[0].UserID)
	}
	if recent[0].At.IsZero() {
		t.Error("Record should stamp a zero At")
	}

	if got := log.Recent("bob", 1); len(got) != 1 || got[0].Repo != "recipes" {
		t.Errorf("bob's events = %+v", got)
	}
	if log.Recent("nobody", 5) != nil {
		t.Error("unknown user should have no events")
	}
}

func TestRecentLimit(t *testing.T) {
	log := NewLog(0)
	for i := 0; i < 5; i++ {
		log.Record("alice", Event{Kind: KindFileView, Path: fmt.Sprintf("f%d", i)})
	}

	recent := log.Recent("alice", 3)
	if len(recent) != 3 {
		t.Fatalf("Recent(3) returned %d", len(recent))
	}
	if recent[0].Path != "f4" || recent[2].Path != "f2" {
		t.Errorf("Recent(3) = %q..%q, want f4..f2", recent[0].Path, recent[2].Path)
	}
}

func TestRingEviction(t *testing.T) {
	log := NewLog(3)
	for i := 0; i < 5; i++ {
		log.Record("alice", Event{Kind: KindFileEdit, Path: fmt.Sprintf("f%d", i)})
	}

	recent := log.Recent("alice", 10)
	if len(recent) != 3 {
		t.Fatalf("ring holds %d events, want 3", len(recent))
	}
	if recent[len(recent)-1].Path != "f2" {
		t.Errorf("oldest surviving event = %q, want f2", recent[len(recent)-1].Path)
	}

	// Totals count beyond the ring
	if log.Totals("alice")[KindFileEdit] != 5 {
		t.Errorf("totals = %v, want 5 edits", log.Totals("alice"))
	}
}

func TestTotals(t *testing.T) {
	log := NewLog(0)
	log.Record("alice", Event{Kind: KindFileCreate})
	log.Record("alice", Event{Kind: KindFileCreate})
	log.Record("alice", Event{Kind: KindFileDelete})

	totals := log.Totals("alice")
	if totals[KindFileCreate] != 2 || totals[KindFileDelete] != 1 {
		t.Errorf("totals = %v", totals)
	}
	if log.Totals("nobody") != nil {
		t.Error("unknown user should have nil totals")
	}
}

func TestSubscribe(t *testing.T) {
	log := NewLog(0)

	ch := log.Subscribe()
	log.Record("alice", Event{Kind: KindBranch, Repo: "notes", Detail: "drafts"})

	select {
	case ev := <-ch:
		if ev.Kind != KindBranch || ev.UserID != "alice" {
			t.Errorf("streamed event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	log.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Error("Unsubscribe should close the channel")
	}

	// Recording after unsubscribe must not panic
	log.Record("alice", Event{Kind: KindFileList})
}

func TestPersistRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.yml")

	log := NewLog(0)
	log.Record("alice", Event{Kind: KindFileCreate, Repo: "notes", Path: "a.md"})
	log.Record("alice", Event{Kind: KindFileEdit, Repo: "notes", Path: "a.md"})

	if err := log.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored := NewLog(0)
	if err := restored.Restore(path); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	recent := restored.Recent("alice", 10)
	if len(recent) != 2 {
		t.Fatalf("restored %d events, want 2", len(recent))
	}
	if restored.Totals("alice")[KindFileEdit] != 1 {
		t.Errorf("restored totals = %v", restored.Totals("alice"))
	}
}

func TestRestoreMissingFile(t *testing.T) {
	log := NewLog(0)
	if err := log.Restore(filepath.Join(t.TempDir(), "absent.yml")); err != nil {
		t.Errorf("missing snapshot should not error, got %v", err)
	}
}

func TestRestoreTrimsToCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.yml")

	big := NewLog(10)
	for i := 0; i < 10; i++ {
		big.Record("alice", Event{Kind: KindFileView, Path: fmt.Sprintf("f%d", i)})
	}
	if err := big.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	small := NewLog(4)
	if err := small.Restore(path); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	recent := small.Recent("alice", 100)
	if len(recent) != 4 {
		t.Errorf("restored ring holds %d, want 4", len(recent))
	}
	if recent[0].Path != "f9" {
		t.Errorf("newest restored event = %q, want f9", recent[0].Path)
	}
}
