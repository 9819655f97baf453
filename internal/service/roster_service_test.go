package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/repository"
	"github.com/stemsi/progresspoint/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, f *fixture, username, password string) {
	t.Helper()
	ok, err := f.auth.Login(context.Background(), username, password)
	require.NoError(t, err)
	require.True(t, ok)
}

func find(t *testing.T, students []model.Student, id string) model.Student {
	t.Helper()
	for _, s := range students {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("student %s not in roster", id)
	return model.Student{}
}

func TestRosterRequiresSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.roster.Students()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = f.roster.UpdateAttendance(ctx, "2024-01-10", nil)
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = f.roster.UpdateStudentMarks(ctx, "d1", model.MarksPatch{})
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = f.roster.AttendanceRecords()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = f.roster.Leaderboard()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Nil(t, f.roster.Owner())
}

func TestRosterFollowsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	login(t, f, "Dhanush", "1234")
	dhanush, err := f.roster.Students()
	require.NoError(t, err)
	require.Len(t, dhanush, 10)
	assert.Equal(t, "d1", dhanush[0].ID)
	assert.Equal(t, model.EventSessionChanged, f.events.last().Type)
	assert.Equal(t, "Dhanush", f.events.last().Admin)

	login(t, f, "Mei", "5678")
	mei, err := f.roster.Students()
	require.NoError(t, err)
	require.Len(t, mei, 10)
	assert.Equal(t, "Mei", f.roster.Owner().Username)

	seen := make(map[string]bool)
	for _, s := range dhanush {
		seen[s.ID] = true
	}
	for _, s := range mei {
		assert.False(t, seen[s.ID], "student %s appears in both rosters", s.ID)
	}

	require.NoError(t, f.auth.Logout(ctx))
	_, err = f.roster.Students()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Empty(t, f.events.last().Students)
}

func TestUpdateAttendanceScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	login(t, f, "Dhanush", "1234")

	students, err := f.roster.UpdateAttendance(ctx, "2024-01-10", []model.AttendanceEntry{{StudentID: "d1", Status: model.StatusAbsent}})
	require.NoError(t, err)
	d1 := find(t, students, "d1")
	assert.Len(t, d1.Attendance, 1)
	assert.Equal(t, 0, d1.AttendancePercentage)
	assert.Equal(t, 98, find(t, students, "d2").AttendancePercentage, "students without an entry are untouched")

	students, err = f.roster.UpdateAttendance(ctx, "2024-01-10", []model.AttendanceEntry{{StudentID: "d1", Status: model.StatusPresent}})
	require.NoError(t, err)
	d1 = find(t, students, "d1")
	assert.Len(t, d1.Attendance, 1)
	assert.Equal(t, 100, d1.AttendancePercentage)

	assert.Equal(t, model.EventRosterUpdated, f.events.last().Type)

	records, err := f.roster.AttendanceRecords()
	require.NoError(t, err)
	require.Contains(t, records, "2024-01-10")
	assert.Equal(t, []model.AttendanceMark{{StudentID: "d1", Name: "Aisha Patel", Status: model.StatusPresent}}, records["2024-01-10"].Records)
}

func TestUpdateAttendancePersistsPerAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	login(t, f, "Mei", "5678")

	_, err := f.roster.UpdateAttendance(ctx, "2024-03-01", []model.AttendanceEntry{{StudentID: "m2", Status: model.StatusPresent}})
	require.NoError(t, err)

	stored, err := repository.NewRosterRepository(f.store).Get(ctx, "mei")
	require.NoError(t, err)
	assert.Len(t, find(t, stored, "m2").Attendance, 1)

	_, err = f.store.Read(ctx, config.StorageKey.RosterKey("dhanush"))
	assert.ErrorIs(t, err, storage.ErrNotFound, "other admins' namespaces are untouched")

	// Switching away and back reloads the persisted roster, not the seed.
	login(t, f, "Dhanush", "1234")
	login(t, f, "Mei", "5678")
	students, err := f.roster.Students()
	require.NoError(t, err)
	assert.Len(t, find(t, students, "m2").Attendance, 1)
}

func TestUpdateStudentMarksScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	login(t, f, "Dhanush", "1234")

	hundred := 100
	students, err := f.roster.UpdateStudentMarks(ctx, "d1", model.MarksPatch{Assessment: &hundred})
	require.NoError(t, err)

	d1 := find(t, students, "d1")
	assert.Equal(t, 355, d1.Marks.Total)
	assert.Equal(t, d1.Marks.Sum(), d1.Marks.Total)

	for i := 1; i < len(students); i++ {
		prev, cur := students[i-1], students[i]
		ordered := prev.Marks.Total > cur.Marks.Total ||
			(prev.Marks.Total == cur.Marks.Total && prev.AttendancePercentage >= cur.AttendancePercentage)
		assert.True(t, ordered, "%s before %s", prev.ID, cur.ID)
	}
	assert.Equal(t, "d5", students[0].ID)

	board, err := f.roster.Leaderboard()
	require.NoError(t, err)
	assert.Equal(t, "d5", board.Entries[0].Student.ID)
	assert.Equal(t, model.MedalGold, board.Entries[0].Medal)
}

func TestUpdateStudentMarksUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	login(t, f, "Mei", "5678")

	before, err := f.roster.Students()
	require.NoError(t, err)

	fifty := 50
	after, err := f.roster.UpdateStudentMarks(ctx, "nobody", model.MarksPatch{Efforts: &fifty})
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestMutationStorageFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	login(t, f, "Dhanush", "1234")

	f.store.failWrites = true
	_, err := f.roster.UpdateAttendance(ctx, "2024-01-10", []model.AttendanceEntry{{StudentID: "d1", Status: model.StatusAbsent}})
	assert.ErrorIs(t, err, errStoreDown)

	students, err := f.roster.Students()
	require.NoError(t, err)
	assert.Empty(t, find(t, students, "d1").Attendance)
}

func TestCorruptRosterFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	require.NoError(t, store.Write(ctx, config.StorageKey.RosterKey("dhanush"), []byte("not json")))

	f := newFixture(t, store)
	login(t, f, "dhanush", "1234")

	students, err := f.roster.Students()
	require.NoError(t, err)
	assert.Len(t, students, 10)
	assert.Equal(t, "Aisha Patel", find(t, students, "d1").Name)
}

func TestRosterReloadedAfterRestore(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}

	first := newFixture(t, store)
	login(t, first, "Mei", "5678")
	_, err := first.roster.UpdateAttendance(ctx, "2024-01-10", []model.AttendanceEntry{{StudentID: "m1", Status: model.StatusAbsent}})
	require.NoError(t, err)

	restarted := newFixture(t, store)
	require.NoError(t, restarted.auth.Restore(ctx))
	students, err := restarted.roster.Students()
	require.NoError(t, err)
	assert.Equal(t, 0, find(t, students, "m1").AttendancePercentage)
}

func TestStudentsReturnsDeepCopy(t *testing.T) {
	f := newFixture(t, nil)
	login(t, f, "Mei", "5678")

	students, err := f.roster.Students()
	require.NoError(t, err)
	students[0].Name = "changed"
	students[0].Attendance = append(students[0].Attendance, model.AttendanceRecord{Date: "2024-01-01", Status: model.StatusAbsent})

	again, err := f.roster.Students()
	require.NoError(t, err)
	assert.Equal(t, "Li Wei", again[0].Name)
	assert.Empty(t, again[0].Attendance)
}

func TestAttendanceSheetAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	login(t, f, "Mei", "5678")

	sheet, err := f.roster.AttendanceSheet("2024-01-10")
	require.NoError(t, err)
	require.Len(t, sheet, 10)
	for _, e := range sheet {
		assert.Equal(t, model.StatusPresent, e.Status)
	}

	_, err = f.roster.UpdateAttendance(ctx, "2024-01-10", []model.AttendanceEntry{
		{StudentID: "m1", Status: model.StatusAbsent},
		{StudentID: "m2", Status: model.StatusPresent},
	})
	require.NoError(t, err)

	history, err := f.roster.AttendanceHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.DaySummary{Date: "2024-01-10", Present: 1, Total: 2, Percentage: 50}, history[0].Summary)
}

// assertConsistent checks that the loaded roster belongs to the session admin.
func assertConsistent(t *testing.T, f *fixture) {
	t.Helper()
	current := f.auth.Current()
	owner := f.roster.Owner()
	if current == nil {
		assert.Nil(t, owner)
		_, err := f.roster.Students()
		assert.ErrorIs(t, err, ErrNoActiveSession)
		assert.Empty(t, f.events.last().Admin)
		return
	}

	require.NotNil(t, owner)
	assert.Equal(t, current.Username, owner.Username)
	assert.Equal(t, current.Username, f.events.last().Admin)

	students, err := f.roster.Students()
	require.NoError(t, err)
	require.NotEmpty(t, students)
	prefix := strings.ToLower(current.Username[:1])
	for _, st := range students {
		assert.True(t, strings.HasPrefix(st.ID, prefix), "student %s in %s's roster", st.ID, current.Username)
	}
}

func TestConcurrentLoginsKeepRosterWithSession(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{
		MemoryStore: storage.NewMemoryStore(),
		delays: map[string]time.Duration{
			config.StorageKey.RosterKey("dhanush"): 60 * time.Millisecond,
			config.StorageKey.SessionKey():         20 * time.Millisecond,
		},
	}
	f := newFixture(t, store)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.auth.Login(ctx, "Dhanush", "1234")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		_, err := f.auth.Login(ctx, "Mei", "5678")
		assert.NoError(t, err)
	}()
	wg.Wait()

	assertConsistent(t, f)
}

func TestLogoutDuringRosterLoad(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{
		MemoryStore: storage.NewMemoryStore(),
		delays: map[string]time.Duration{
			config.StorageKey.RosterKey("mei"): 60 * time.Millisecond,
		},
	}
	f := newFixture(t, store)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.auth.Login(ctx, "Mei", "5678")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		assert.NoError(t, f.auth.Logout(ctx))
	}()
	wg.Wait()

	assertConsistent(t, f)
}

func TestReloginDoesNotLoseConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	f := newFixture(t, store)
	login(t, f, "Dhanush", "1234")
	store.delays = map[string]time.Duration{
		config.StorageKey.RosterKey("dhanush"): 40 * time.Millisecond,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.auth.Login(ctx, "Dhanush", "1234")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		_, err := f.roster.UpdateAttendance(ctx, "2024-01-10", []model.AttendanceEntry{{StudentID: "d1", Status: model.StatusAbsent}})
		assert.NoError(t, err)
	}()
	wg.Wait()

	stored, err := repository.NewRosterRepository(store).Get(ctx, "dhanush")
	require.NoError(t, err)
	students, err := f.roster.Students()
	require.NoError(t, err)
	assert.Equal(t, find(t, stored, "d1").Attendance, find(t, students, "d1").Attendance)
	assert.Len(t, find(t, students, "d1").Attendance, 1)
}

func TestStoredRosterIsNormalizedOnLoad(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	require.NoError(t, repository.NewRosterRepository(store).Save(ctx, "dhanush", []model.Student{{
		ID:   "d1",
		Name: "Aisha Patel",
		Marks: model.MarkSet{
			Presentation: 150, Efforts: -5, Assignment: 90, Assessment: 80, Total: 9999,
		},
		Attendance: []model.AttendanceRecord{
			{Date: "2024-01-10", Status: model.StatusAbsent},
			{Date: "2024-01-10", Status: model.StatusPresent},
			{Date: "2024-01-11", Status: "late"},
			{Date: "not-a-date", Status: model.StatusPresent},
			{Date: "2024-01-12", Status: model.StatusPresent},
		},
		AttendancePercentage: 300,
	}}))

	f := newFixture(t, store)
	login(t, f, "Dhanush", "1234")

	students, err := f.roster.Students()
	require.NoError(t, err)
	require.Len(t, students, 1)
	d1 := students[0]
	assert.Equal(t, model.MarkSet{Presentation: 100, Efforts: 0, Assignment: 90, Assessment: 80, Total: 270}, d1.Marks)
	assert.Equal(t, []model.AttendanceRecord{
		{Date: "2024-01-10", Status: model.StatusAbsent},
		{Date: "2024-01-12", Status: model.StatusPresent},
	}, d1.Attendance)
	assert.Equal(t, 50, d1.AttendancePercentage)
}
