package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/repository"
	"github.com/stemsi/progresspoint/internal/seed"
	"github.com/stemsi/progresspoint/internal/storage"
	"github.com/tiendc/go-deepcopy"
)

// Notifier receives roster events after they happen.
type Notifier interface {
	Notify(event model.RosterEvent)
}

type noopNotifier struct{}

func (noopNotifier) Notify(model.RosterEvent) {}

// RosterService holds the logged-in admin's roster. It follows the session:
// every login or restore loads that admin's roster, a logout empties it.
type RosterService struct {
	mu       sync.RWMutex
	owner    *model.Admin
	students []model.Student

	rosters  *repository.RosterRepository
	notifier Notifier
	log      zerolog.Logger
}

// NewRosterService creates a RosterService bound to auth. If auth already
// has a session its roster is loaded immediately. notifier may be nil.
func NewRosterService(
	ctx context.Context,
	auth *AuthService,
	rosters *repository.RosterRepository,
	notifier Notifier,
	log zerolog.Logger,
) *RosterService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	s := &RosterService{
		rosters:  rosters,
		notifier: notifier,
		log:      log.With().Str("component", "roster_service").Logger(),
	}
	auth.OnChange(s.reload)
	if admin := auth.Current(); admin != nil {
		s.reload(ctx, admin)
	}
	return s
}

// reload swaps in the roster of admin. A stored roster wins over the seed;
// a missing or unreadable one falls back to a fresh copy of the seed. The
// load runs under the roster lock so no mutation can interleave with it.
func (s *RosterService) reload(ctx context.Context, admin *model.Admin) {
	s.mu.Lock()
	if admin == nil {
		s.owner, s.students = nil, nil
		s.mu.Unlock()
		s.notifier.Notify(model.RosterEvent{Type: model.EventSessionChanged, Students: []model.Student{}})
		return
	}

	students := s.load(ctx, admin)
	s.owner, s.students = admin, students
	snapshot := cloneRoster(students)
	s.mu.Unlock()

	s.log.Info().Str("admin", admin.Username).Int("students", len(students)).Msg("Roster loaded")
	s.notifier.Notify(model.RosterEvent{
		Type:     model.EventSessionChanged,
		Admin:    admin.Username,
		Students: snapshot,
	})
}

func (s *RosterService) load(ctx context.Context, admin *model.Admin) []model.Student {
	students, err := s.rosters.Get(ctx, admin.Username)
	if err == nil {
		if normalized, changed := NormalizeRoster(students); changed {
			s.log.Warn().Str("admin", admin.Username).Msg("Stored roster had out-of-range values, normalized")
			return normalized
		}
		return students
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Debug().Str("admin", admin.Username).Msg("No stored roster, using seed")
	case errors.Is(err, repository.ErrCorruptData):
		s.log.Warn().Err(err).Str("admin", admin.Username).Msg("Stored roster unreadable, using seed")
	default:
		s.log.Error().Err(err).Str("admin", admin.Username).Msg("Roster load failed, using seed")
	}

	seeded, err := seed.Roster(admin.ID)
	if err != nil {
		s.log.Error().Err(err).Str("admin", admin.Username).Msg("Seed roster copy failed")
		return []model.Student{}
	}
	return seeded
}

// Owner returns the admin whose roster is loaded, or nil.
func (s *RosterService) Owner() *model.Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner == nil {
		return nil
	}
	admin := *s.owner
	return &admin
}

// Students returns a deep copy of the current roster in roster order.
func (s *RosterService) Students() ([]model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner == nil {
		return nil, ErrNoActiveSession
	}
	return cloneRoster(s.students), nil
}

// UpdateAttendance records one roll call and returns the resulting roster.
// The new roster is persisted before it becomes visible.
func (s *RosterService) UpdateAttendance(ctx context.Context, date string, entries []model.AttendanceEntry) ([]model.Student, error) {
	return s.mutate(ctx, func(students []model.Student) []model.Student {
		return ApplyAttendance(students, date, entries)
	})
}

// UpdateStudentMarks applies a partial marks update to one student and
// re-ranks the roster. An unknown id is a silent no-op on the marks.
func (s *RosterService) UpdateStudentMarks(ctx context.Context, id string, patch model.MarksPatch) ([]model.Student, error) {
	return s.mutate(ctx, func(students []model.Student) []model.Student {
		return ApplyStudentMarks(students, id, patch)
	})
}

// AttendanceRecords groups the current roster's history by date.
func (s *RosterService) AttendanceRecords() (map[string]model.AttendanceDay, error) {
	students, err := s.Students()
	if err != nil {
		return nil, err
	}
	return GroupAttendanceByDate(students), nil
}

// AttendanceHistory lists recorded days newest first with their head counts.
func (s *RosterService) AttendanceHistory() ([]model.AttendanceHistoryItem, error) {
	students, err := s.Students()
	if err != nil {
		return nil, err
	}
	return AttendanceHistory(students), nil
}

// AttendanceSheet returns the pre-filled roll call for date.
func (s *RosterService) AttendanceSheet(date string) ([]model.AttendanceEntry, error) {
	students, err := s.Students()
	if err != nil {
		return nil, err
	}
	return AttendanceSheet(students, date), nil
}

// Leaderboard ranks the current roster.
func (s *RosterService) Leaderboard() (model.Leaderboard, error) {
	students, err := s.Students()
	if err != nil {
		return model.Leaderboard{}, err
	}
	return BuildLeaderboard(students), nil
}

func (s *RosterService) mutate(ctx context.Context, fn func([]model.Student) []model.Student) ([]model.Student, error) {
	s.mu.Lock()
	if s.owner == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	next := fn(cloneRoster(s.students))
	if err := s.rosters.Save(ctx, s.owner.Username, next); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save roster: %w", err)
	}
	s.students = next
	owner := s.owner.Username
	snapshot := cloneRoster(next)
	s.mu.Unlock()

	s.notifier.Notify(model.RosterEvent{
		Type:     model.EventRosterUpdated,
		Admin:    owner,
		Students: snapshot,
	})
	return cloneRoster(next), nil
}

func cloneRoster(students []model.Student) []model.Student {
	out := make([]model.Student, 0, len(students))
	if err := deepcopy.Copy(&out, &students); err != nil {
		panic(fmt.Sprintf("clone roster: %v", err))
	}
	if out == nil {
		out = []model.Student{}
	}
	model.FillAttendance(out)
	return out
}
