package archive

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
)

const owner = "owner-1"

func fixedNow(t *testing.T, rfc3339 string) func() time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		t.Fatalf("parsing %q: %v", rfc3339, err)
	}
	return func() time.Time { return at }
}

func newTestEngine(t *testing.T, store Store, now string, opts ...Option) *Engine {
	t.Helper()
	var seq atomic.Int64
	opts = append([]Option{WithIDGenerator(func() string {
		return fmt.Sprintf("arch-%d", seq.Add(1))
	})}, opts...)
	return NewEngine(store, calendar.New(calendar.IST, fixedNow(t, now)), opts...)
}

func task(id, due string, completed bool, tags ...string) model.Task {
	return model.Task{
		ID:          id,
		OwnerID:     owner,
		Title:       "task " + id,
		DueDate:     calendar.DayKey(due),
		Priority:    model.PriorityMedium,
		Completed:   completed,
		ProjectTags: tags,
		CreatedAt:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestArchivePastDue_Scenario(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.addTask(task("B", "2025-01-05", true))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")
	ctx := context.Background()

	res, err := e.ArchivePastDue(ctx, owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 2 || res.Selected != 2 {
		t.Fatalf("moved %d of %d, want 2 of 2", res.Moved, res.Selected)
	}
	if res.Outcome() != OutcomeSuccess {
		t.Errorf("outcome = %s", res.Outcome())
	}

	active, _ := store.ListActiveTasks(ctx, owner)
	if len(active) != 0 {
		t.Errorf("active set still has %d tasks", len(active))
	}

	records, err := e.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	days := map[string]int{}
	for _, r := range records {
		days[r.OriginalTaskID] = r.DaysPastDue
	}
	if days["A"] != 9 || days["B"] != 5 {
		t.Errorf("days past due = %v, want A:9 B:5", days)
	}

	stats, err := e.Stats(ctx, owner)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalArchived != 2 || stats.TotalCompleted != 1 || stats.TotalIncomplete != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.MaxDaysPastDue != 9 || stats.AvgDaysPastDue != 7 {
		t.Errorf("max/avg = %d/%d, want 9/7", stats.MaxDaysPastDue, stats.AvgDaysPastDue)
	}
}

func TestArchivePastDue_Idempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.addTask(task("B", "2025-01-08", false))
	store.addTask(task("C", "2025-01-20", false))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	first, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Moved != 2 || second.Moved != 0 {
		t.Errorf("moved %d then %d, want 2 then 0", first.Moved, second.Moved)
	}
	if store.inserts != 2 {
		t.Errorf("inserted %d records, want 2", store.inserts)
	}
}

func TestArchivePastDue_Boundary(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("today", "2025-01-10", false))
	store.addTask(task("yesterday-open", "2025-01-09", false))
	store.addTask(task("yesterday-done", "2025-01-09", true))
	store.addTask(task("undated", "", false))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	res, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 2 {
		t.Errorf("moved %d, want 2", res.Moved)
	}
	if _, ok := store.tasks["today"]; !ok {
		t.Errorf("task due today was archived")
	}
	if _, ok := store.tasks["undated"]; !ok {
		t.Errorf("task without due date was archived")
	}
}

func TestArchivePastDue_TimezoneInvariance(t *testing.T) {
	t.Parallel()

	// Every instant below falls on 2025-06-11 in IST.
	instants := []string{
		"2025-06-10T18:30:00Z",
		"2025-06-11T00:00:00Z",
		"2025-06-11T18:29:59Z",
		"2025-06-11T05:00:00-07:00",
	}
	for _, at := range instants {
		t.Run(at, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			store.addTask(task("A", "2025-06-10", false))
			e := newTestEngine(t, store, at)

			res, err := e.ArchivePastDue(context.Background(), owner)
			if err != nil {
				t.Fatalf("ArchivePastDue: %v", err)
			}
			if res.Moved != 1 {
				t.Fatalf("moved %d, want 1", res.Moved)
			}
			for _, r := range store.archived {
				if r.DaysPastDue != 1 {
					t.Errorf("days past due = %d, want 1", r.DaysPastDue)
				}
			}
		})
	}
}

func TestArchivePastDue_DenormalizedNamesSurviveProjectChanges(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addProject(model.Project{ID: "P", OwnerID: owner, Name: "Work", Active: true})
	store.addTask(task("A", "2025-01-01", false, "P", "deleted-project"))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")
	ctx := context.Background()

	if _, err := e.ArchivePastDue(ctx, owner); err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}

	store.addProject(model.Project{ID: "P", OwnerID: owner, Name: "Renamed", Active: false})

	records, err := e.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	r := records[0]
	if len(r.ProjectNames) != 1 || r.ProjectNames[0] != "Work" {
		t.Errorf("project names = %v, want [Work]", r.ProjectNames)
	}
	if len(r.ProjectTags) != 2 {
		t.Errorf("project tags = %v, want both tags kept", r.ProjectTags)
	}
}

func TestArchivePastDue_InactiveProjectsResolve(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addProject(model.Project{ID: "P", OwnerID: owner, Name: "Old", Active: false})
	store.addTask(task("A", "2025-01-01", false, "P"))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	if _, err := e.ArchivePastDue(context.Background(), owner); err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	for _, r := range store.archived {
		if len(r.ProjectNames) != 1 || r.ProjectNames[0] != "Old" {
			t.Errorf("project names = %v, want [Old]", r.ProjectNames)
		}
	}
}

func TestArchivePastDue_NoOp(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-10", false))
	store.addTask(task("B", "2025-02-01", true))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	res, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 0 || res.Outcome() != OutcomeNoop {
		t.Errorf("result = %+v", res)
	}
	if len(store.tasks) != 2 || len(store.archived) != 0 {
		t.Errorf("sets changed: %d active, %d archived", len(store.tasks), len(store.archived))
	}
}

func TestArchivePastDue_InsertFailureKeepsTask(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.addTask(task("B", "2025-01-02", false))
	store.insertErr["A"] = errors.New("constraint violation")
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	res, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 1 || len(res.Failures) != 1 || res.Failures[0].TaskID != "A" {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := store.tasks["A"]; !ok {
		t.Errorf("task A was deleted although its insert failed")
	}
	if res.Outcome() != OutcomePartial {
		t.Errorf("outcome = %s, want partial", res.Outcome())
	}

	delete(store.insertErr, "A")
	retry, _ := e.ArchivePastDue(context.Background(), owner)
	if retry.Moved != 1 {
		t.Errorf("retry moved %d, want 1", retry.Moved)
	}
}

func TestArchivePastDue_DeleteFailureIsInconsistency(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.deleteErr["A"] = errors.New("connection reset")
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	res, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 0 {
		t.Errorf("moved %d, want 0", res.Moved)
	}
	if len(res.Inconsistencies) != 1 || res.Inconsistencies[0].TaskID != "A" || res.Inconsistencies[0].ArchivedID == "" {
		t.Fatalf("inconsistencies = %+v", res.Inconsistencies)
	}
	if res.Outcome() != OutcomePartial {
		t.Errorf("outcome = %s, want partial", res.Outcome())
	}
	if len(store.archived) != 1 || len(store.tasks) != 1 {
		t.Errorf("expected the task in both sets, got %d archived, %d active", len(store.archived), len(store.tasks))
	}
}

func TestArchivePastDue_RetryAfterDeleteFailureReusesRecord(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.deleteErr["A"] = errors.New("connection reset")
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	first, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if len(first.Inconsistencies) != 1 {
		t.Fatalf("first run inconsistencies = %+v", first.Inconsistencies)
	}

	delete(store.deleteErr, "A")
	retry, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue retry: %v", err)
	}
	if retry.Moved != 1 || len(retry.Failures) != 0 || len(retry.Inconsistencies) != 0 {
		t.Fatalf("retry result = %+v", retry)
	}
	if len(store.archived) != 1 {
		t.Errorf("got %d archive records, want 1", len(store.archived))
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want 1", store.inserts)
	}
	if _, ok := store.tasks["A"]; ok {
		t.Errorf("task A still active after retry")
	}
	if a, ok := store.archived[first.Inconsistencies[0].ArchivedID]; !ok || a.OriginalTaskID != "A" {
		t.Errorf("archive record %s not kept: %+v", first.Inconsistencies[0].ArchivedID, store.archived)
	}
}

func TestArchivePastDue_LookupFailureSkipsInsert(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.lookupErr = errors.New("database is locked")
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	res, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].TaskID != "A" {
		t.Fatalf("failures = %+v", res.Failures)
	}
	if store.inserts != 0 || store.deletes != 0 {
		t.Errorf("inserts = %d, deletes = %d, want none", store.inserts, store.deletes)
	}
}

func TestArchivePastDue_Errors(t *testing.T) {
	t.Parallel()

	readFailure := errors.New("store unavailable")
	tests := []struct {
		name    string
		owner   string
		prepare func(*fakeStore)
		check   func(error) bool
	}{
		{
			name:  "no owner",
			owner: "",
			check: func(err error) bool { return errors.Is(err, ErrNoOwner) },
		},
		{
			name:    "tasks unreadable",
			owner:   owner,
			prepare: func(s *fakeStore) { s.listTasksErr = readFailure },
			check: func(err error) bool {
				var re *ReadError
				return errors.As(err, &re) && re.What == "active tasks" && errors.Is(err, readFailure)
			},
		},
		{
			name:    "projects unreadable",
			owner:   owner,
			prepare: func(s *fakeStore) { s.listProjectsErr = readFailure },
			check: func(err error) bool {
				var re *ReadError
				return errors.As(err, &re) && re.What == "projects"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			store.addTask(task("A", "2025-01-01", false))
			if tt.prepare != nil {
				tt.prepare(store)
			}
			e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

			_, err := e.ArchivePastDue(context.Background(), tt.owner)
			if !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if store.inserts != 0 || store.deletes != 0 {
				t.Errorf("mutations happened: %d inserts, %d deletes", store.inserts, store.deletes)
			}
		})
	}
}

func TestArchivePastDue_Concurrent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	for i := 1; i <= 20; i++ {
		store.addTask(task(fmt.Sprintf("T%02d", i), "2025-01-01", i%2 == 0))
	}
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z", WithConcurrency(4))

	res, err := e.ArchivePastDue(context.Background(), owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 20 || len(store.tasks) != 0 || len(store.archived) != 20 {
		t.Errorf("moved %d, %d active left, %d archived", res.Moved, len(store.tasks), len(store.archived))
	}
}

func TestArchivePastDue_CancelledContextStillCompletesMoves(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.ArchivePastDue(ctx, owner)
	if err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if res.Moved != 1 {
		t.Errorf("moved %d, want 1", res.Moved)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")
	ctx := context.Background()

	if _, err := e.ArchivePastDue(ctx, owner); err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	if err := e.Delete(ctx, owner, "arch-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := e.Delete(ctx, owner, "arch-1"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if err := e.Delete(ctx, "", "arch-1"); !errors.Is(err, ErrNoOwner) {
		t.Errorf("Delete without owner: %v", err)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addTask(task("A", "2025-01-01", false))
	store.addTask(task("B", "2025-01-02", false))
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")
	ctx := context.Background()

	if _, err := e.ArchivePastDue(ctx, owner); err != nil {
		t.Fatalf("ArchivePastDue: %v", err)
	}
	n, err := e.Clear(ctx, owner)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 || len(store.archived) != 0 {
		t.Errorf("cleared %d, %d left", n, len(store.archived))
	}
}

func TestListBackfillsMissingNames(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addProject(model.Project{ID: "P", OwnerID: owner, Name: "Home", Active: false})
	store.archived["legacy"] = model.ArchivedTask{
		ID: "legacy", OwnerID: owner, OriginalTaskID: "X",
		ProjectTags: []string{"P", "missing"},
	}
	e := newTestEngine(t, store, "2025-01-10T06:00:00Z")

	records, err := e.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records[0].ProjectNames) != 1 || records[0].ProjectNames[0] != "Home" {
		t.Errorf("backfilled names = %v, want [Home]", records[0].ProjectNames)
	}
	if len(store.archived["legacy"].ProjectNames) != 0 {
		t.Errorf("backfill was written to the store")
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	empty := ComputeStats(nil, now)
	if empty.TotalArchived != 0 || empty.AvgDaysPastDue != 0 || empty.MaxDaysPastDue != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
	if !empty.OldestMovedAt.Equal(now) || !empty.LatestMovedAt.Equal(now) {
		t.Errorf("empty timestamps = %v / %v, want now", empty.OldestMovedAt, empty.LatestMovedAt)
	}

	t1 := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	stats := ComputeStats([]model.ArchivedTask{
		{MovedAt: t1, DaysPastDue: 1, Completed: true},
		{MovedAt: t2, DaysPastDue: 2},
		{MovedAt: t3, DaysPastDue: 2},
	}, now)
	if stats.TotalArchived != 3 || stats.TotalCompleted != 1 || stats.TotalIncomplete != 2 {
		t.Errorf("counts = %+v", stats)
	}
	// 5/3 rounds to 2.
	if stats.AvgDaysPastDue != 2 || stats.MaxDaysPastDue != 2 {
		t.Errorf("avg/max = %d/%d", stats.AvgDaysPastDue, stats.MaxDaysPastDue)
	}
	if !stats.OldestMovedAt.Equal(t1) || !stats.LatestMovedAt.Equal(t2) {
		t.Errorf("oldest/latest = %v / %v", stats.OldestMovedAt, stats.LatestMovedAt)
	}
}

func TestResultMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		res  Result
		want string
	}{
		{Result{}, "No past-due tasks to archive."},
		{Result{Selected: 1, Moved: 1}, "Archived 1 past-due task."},
		{Result{Selected: 3, Moved: 3}, "Archived 3 past-due tasks."},
		{Result{Selected: 2, Failures: make([]Failure, 2)}, "Could not archive 2 past-due tasks; try again."},
		{
			Result{Selected: 3, Moved: 1, Inconsistencies: make([]Inconsistency, 1), Failures: make([]Failure, 1)},
			"Archived 1 of 3 past-due tasks; 1 is now in both active and archive; 1 failed and will be retried.",
		},
	}
	for _, tt := range tests {
		if got := tt.res.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}
