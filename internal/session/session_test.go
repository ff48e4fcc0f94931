package session

import (
	"testing"
	"time"

	"fahrtkosten-service/internal/domain"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(30 * time.Minute)

	s := m.Create()
	if s.ID == "" {
		t.Fatal("session has no id")
	}
	got, ok := m.Get(s.ID)
	if !ok || got.ID != s.ID {
		t.Fatalf("Get returned %v, %v", got, ok)
	}
	if _, ok := m.Get("unknown"); ok {
		t.Error("Get returned a session for an unknown id")
	}
}

func TestGetOrCreate(t *testing.T) {
	m := NewManager(30 * time.Minute)

	s, created := m.GetOrCreate("")
	if !created {
		t.Error("empty id must create a session")
	}
	resumed, created := m.GetOrCreate(s.ID)
	if created || resumed.ID != s.ID {
		t.Errorf("expected resume of %q, got %q (created=%v)", s.ID, resumed.ID, created)
	}
	replaced, created := m.GetOrCreate("stale-id")
	if !created || replaced.ID == "stale-id" {
		t.Errorf("unknown id must create a fresh session, got %q (created=%v)", replaced.ID, created)
	}
}

func TestWorkingSetIsolation(t *testing.T) {
	m := NewManager(30 * time.Minute)
	a := m.Create()
	b := m.Create()

	a.Update(func(ws *WorkingSet) {
		ws.Team = "BC Musterstadt"
		ws.Games = []domain.Game{{ID: "1"}}
	})

	if got := b.Snapshot(); got.Team != "" || len(got.Games) != 0 {
		t.Errorf("session b saw session a's data: %+v", got)
	}
	if got := a.Snapshot(); got.Team != "BC Musterstadt" || len(got.Games) != 1 {
		t.Errorf("session a working set = %+v", got)
	}
}

func TestPruneIdle(t *testing.T) {
	m := NewManager(30 * time.Minute)
	base := time.Date(2024, 11, 9, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	idle := m.Create()
	active := m.Create()

	// idle stays quiet, active is touched 25 minutes in.
	m.now = func() time.Time { return base.Add(25 * time.Minute) }
	if _, ok := m.Get(active.ID); !ok {
		t.Fatal("active session missing")
	}

	m.now = func() time.Time { return base.Add(40 * time.Minute) }
	pruned := m.PruneIdle()
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	if _, ok := m.Get(idle.ID); ok {
		t.Error("idle session survived the sweep")
	}
	if _, ok := m.Get(active.ID); !ok {
		t.Error("active session was pruned")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestAuthenticatedFlag(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create()
	if s.Authenticated() {
		t.Error("new session must not be authenticated")
	}
	s.SetAuthenticated(true)
	if !s.Authenticated() {
		t.Error("SetAuthenticated(true) not reflected")
	}
}
