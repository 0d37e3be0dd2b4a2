package board

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/date"
	"github.com/twiced-technology-gmbh/pivotboard/internal/pivot"
	"github.com/twiced-technology-gmbh/pivotboard/internal/store"
	"github.com/twiced-technology-gmbh/pivotboard/internal/task"
)

var today = date.New(2024, time.March, 10)

func dueOn(y int, m time.Month, d int) *date.Date {
	v := date.New(y, m, d)
	return &v
}

func fixture() []*task.Task {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []*task.Task{
		{ID: "t1", Title: "Write report", Status: task.StatusInProgress, Priority: task.PriorityHigh,
			Due: dueOn(2024, time.March, 5), Tags: []string{"urgent", "client-x"}, Created: base},
		{ID: "t2", Title: "Book venue", Created: base.Add(time.Hour), Body: "Ask about catering"},
		{ID: "t3", Title: "Archive mail", Status: task.StatusDone, IsCompleted: true, Priority: task.PriorityLow,
			Due: dueOn(2024, time.March, 1), Tags: []string{"client-x"}, Created: base.Add(2 * time.Hour)},
		{ID: "t4", Title: "plan Q3", Status: "Bogus", Due: dueOn(2024, time.April, 1), Tags: []string{"q3"},
			Created: base.Add(3 * time.Hour)},
	}
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	yes := true
	cutoff := date.New(2024, time.March, 6)
	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"all", FilterOptions{}, []string{"t1", "t2", "t3", "t4"}},
		{"pending uses default", FilterOptions{Statuses: []task.Status{task.StatusPending}}, []string{"t2", "t4"}},
		{"medium uses default", FilterOptions{Priorities: []task.Priority{task.PriorityMedium}}, []string{"t2", "t4"}},
		{"tag", FilterOptions{Tag: "client-x"}, []string{"t1", "t3"}},
		{"search body", FilterOptions{Search: "CATERING"}, []string{"t2"}},
		{"search tag", FilterOptions{Search: "urg"}, []string{"t1"}},
		{"completed", FilterOptions{Completed: &yes}, []string{"t3"}},
		{"overdue", FilterOptions{Overdue: true, Today: today}, []string{"t1"}},
		{"due before", FilterOptions{DueBefore: &cutoff}, []string{"t1", "t3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Filter(fixture(), tt.opts)); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		field   string
		reverse bool
		want    []string
	}{
		{"priority", false, []string{"t1", "t2", "t4", "t3"}},
		{"status", false, []string{"t2", "t4", "t1", "t3"}},
		{"due", false, []string{"t3", "t1", "t4", "t2"}},
		{"title", false, []string{"t3", "t2", "t4", "t1"}},
		{"created", true, []string{"t4", "t3", "t2", "t1"}},
	}
	for _, tt := range tests {
		tasks := fixture()
		Sort(tasks, tt.field, tt.reverse)
		if got := ids(tasks); !slices.Equal(got, tt.want) {
			t.Errorf("Sort(%s, %v) = %v, want %v", tt.field, tt.reverse, got, tt.want)
		}
	}
	if err := ValidateSortField("assignee"); clierr.CodeOf(err) != clierr.InvalidInput {
		t.Errorf("err = %v", err)
	}
}

func TestSummary(t *testing.T) {
	ov := Summary("demo", fixture(), today)
	if ov.TotalTasks != 4 || ov.Completed != 1 || ov.Overdue != 1 || ov.Untagged != 1 || ov.Undated != 1 {
		t.Errorf("overview = %+v", ov)
	}
	wantStatus := []int{2, 1, 0, 1}
	for i, sc := range ov.Statuses {
		if sc.Count != wantStatus[i] {
			t.Errorf("%s count = %d, want %d", sc.Status, sc.Count, wantStatus[i])
		}
	}
	wantPrio := []int{1, 2, 1}
	for i, pc := range ov.Priorities {
		if pc.Count != wantPrio[i] {
			t.Errorf("%s count = %d, want %d", pc.Priority, pc.Count, wantPrio[i])
		}
	}
}

func TestProject(t *testing.T) {
	v := Project(fixture(), pivot.Tag)
	var got []string
	for _, c := range v.Columns {
		got = append(got, c.ID)
		if c.Count != len(c.Tasks) {
			t.Errorf("%s: count %d, tasks %d", c.ID, c.Count, len(c.Tasks))
		}
	}
	if want := []string{"client-x", "q3", "urgent", "none"}; !slices.Equal(got, want) {
		t.Errorf("columns = %v, want %v", got, want)
	}
	if !v.Mutable || Project(nil, pivot.DateByMonth).Mutable {
		t.Error("mutability mismatch")
	}
}

func TestReflectDoesNotMutate(t *testing.T) {
	tasks := fixture()
	patch := task.StatusPatch(task.StatusDone)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	reflected := Reflect(tasks, "t2", patch, now)
	if tasks[1].Status != "" || tasks[1].IsCompleted {
		t.Error("original task mutated")
	}
	if reflected[1].Status != task.StatusDone || !reflected[1].IsCompleted {
		t.Errorf("reflected = %+v", reflected[1])
	}
	if reflected[0] != tasks[0] {
		t.Error("untouched tasks should be shared")
	}
	lanes := pivot.Group(reflected, pivot.Status)
	if got := ids(lanes[3].Tasks); !slices.Equal(got, []string{"t2", "t3"}) {
		t.Errorf("Done lane = %v", got)
	}
}

func newStore(t *testing.T) *store.Files {
	t.Helper()
	s := store.NewFiles(t.TempDir())
	for _, tk := range fixture() {
		if tk.Status == "Bogus" {
			tk.Status = ""
		}
		if _, err := s.Create(context.Background(), tk); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestMoveTask(t *testing.T) {
	s := newStore(t)
	logDir := t.TempDir()
	ctx := context.Background()

	m, err := MoveTask(ctx, s, logDir, "t2", pivot.Status, "Done")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Changed || m.From != "Pending" || m.Task.Status != task.StatusDone || !m.Task.IsCompleted {
		t.Errorf("move = %+v", m)
	}

	m, err = MoveTask(ctx, s, logDir, "t1", pivot.Tag, "none")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(m.Task.Tags, []string{"client-x"}) {
		t.Errorf("tags = %v", m.Task.Tags)
	}

	for _, tt := range []struct {
		p    pivot.Pivot
		dest string
	}{
		{pivot.Status, "Done"},         // already there
		{pivot.Status, "Archived"},     // not a column
		{pivot.DateByMonth, "2024-05"}, // read-only
	} {
		m, err := MoveTask(ctx, s, logDir, "t2", tt.p, tt.dest)
		if err != nil || m.Changed {
			t.Errorf("%s -> %s: changed=%v err=%v", tt.p, tt.dest, m.Changed, err)
		}
	}

	entries, err := ReadLog(logDir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("log entries = %d, want 2", len(entries))
	}
	if entries[0].Action != "move" || entries[0].TaskID != "t2" || entries[0].Detail != "status: Pending -> Done" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestMoveTaskNotFound(t *testing.T) {
	_, err := MoveTask(context.Background(), newStore(t), "", "zzzz", pivot.Status, "Done")
	if clierr.CodeOf(err) != clierr.TaskNotFound {
		t.Errorf("err = %v", err)
	}
}

type failingStore struct {
	store.Store
	err error
}

func (f failingStore) Update(context.Context, string, task.Patch) (*task.Task, error) {
	return nil, f.err
}

func TestPersistSurfacesStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	s := failingStore{Store: newStore(t), err: boom}
	logDir := t.TempDir()

	_, err := Persist(context.Background(), s, logDir, "t1", task.StatusPatch(task.StatusPaused), "")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if entries, _ := ReadLog(logDir, 0); len(entries) != 0 {
		t.Errorf("failed persist was logged: %v", entries)
	}
}

func TestLogTruncation(t *testing.T) {
	dir := t.TempDir()
	for i := range 5 {
		LogMutation(dir, "edit", "t1", string(rune('a'+i)))
	}
	if err := truncateLogIfNeeded(dir+"/"+logFileName, 3); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadLog(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Detail != "c" {
		t.Errorf("entries = %+v", entries)
	}
	last, _ := ReadLog(dir, 1)
	if len(last) != 1 || last[0].Detail != "e" {
		t.Errorf("last = %+v", last)
	}
}

func TestDropCancelled(t *testing.T) {
	s := newStore(t)
	m, err := Drop(context.Background(), s, "", pivot.Priority, pivot.DragEnd{TaskID: "t1", Source: "High"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Changed || m.From != "High" || m.To != "" {
		t.Errorf("move = %+v", m)
	}
}
