package notes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/notes"
	"github.com/nhle/taskdesk/tests/testutil"
)

func TestServiceSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	svc := notes.NewService(s)

	p, err := s.CreateProject(ctx, model.Project{OwnerID: testutil.Owner, Name: "Work"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	n, err := svc.Set(ctx, testutil.Owner, &p.ID, "2025-06-11", "standup notes")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if n.ScopeKey != "work::2025-06-11" {
		t.Errorf("scope key = %q", n.ScopeKey)
	}

	got, err := svc.Get(ctx, testutil.Owner, &p.ID, "2025-06-11")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "standup notes" {
		t.Errorf("text = %q", got.Text)
	}

	if _, err := svc.Set(ctx, testutil.Owner, nil, "", "global"); err != nil {
		t.Fatalf("Set global: %v", err)
	}
	global, err := svc.Get(ctx, testutil.Owner, nil, "")
	if err != nil {
		t.Fatalf("Get global: %v", err)
	}
	if global.ScopeKey != "__null__::__null__" || global.Text != "global" {
		t.Errorf("global note = %+v", global)
	}
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	svc := notes.NewService(s)

	missing := "no-such-project"
	if _, err := svc.Set(ctx, testutil.Owner, &missing, "", "x"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown project err = %v", err)
	}
	if _, err := svc.Get(ctx, "", nil, ""); !errors.Is(err, model.ErrNoOwner) {
		t.Errorf("no owner err = %v", err)
	}
	if _, err := svc.Get(ctx, testutil.Owner, nil, "2025-01-01"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing note err = %v", err)
	}
}
