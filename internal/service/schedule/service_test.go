package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyamin444/RxMeet/internal/domain"
	dateRepo "github.com/eyamin444/RxMeet/internal/infra/storage/daterule"
	weeklyRepo "github.com/eyamin444/RxMeet/internal/infra/storage/weeklyrule"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// fakeWeeklyRepo подбирает правила в памяти так же, как это делает SQL запрос:
// точное совпадение дня недели, полное покрытие диапазона, первым по id
type fakeWeeklyRepo struct {
	rules []*domain.WeeklyRule
}

func (f *fakeWeeklyRepo) ListActiveByDay(_ context.Context, doctorID int64, dayOfWeek int) ([]*domain.WeeklyRule, error) {
	var out []*domain.WeeklyRule
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.DayOfWeek == dayOfWeek && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWeeklyRepo) FindContaining(_ context.Context, doctorID int64, dayOfWeek, startHour, endHour int) (*domain.WeeklyRule, error) {
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.DayOfWeek == dayOfWeek && r.IsActive && r.Contains(startHour, endHour) {
			return r, nil
		}
	}
	return nil, weeklyRepo.ErrRuleNotFound
}

func (f *fakeWeeklyRepo) FindAtHour(_ context.Context, doctorID int64, dayOfWeek, hour int) (*domain.WeeklyRule, error) {
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.DayOfWeek == dayOfWeek && r.IsActive && r.ContainsHour(hour) {
			return r, nil
		}
	}
	return nil, weeklyRepo.ErrRuleNotFound
}

type fakeDateRepo struct {
	rules []*domain.DateRule
}

func (f *fakeDateRepo) ListActiveByDate(_ context.Context, doctorID int64, date time.Time) ([]*domain.DateRule, error) {
	var out []*domain.DateRule
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.TargetDate.Equal(date) && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDateRepo) FindContaining(_ context.Context, doctorID int64, date time.Time, startHour, endHour int) (*domain.DateRule, error) {
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.TargetDate.Equal(date) && r.IsActive && r.Contains(startHour, endHour) {
			return r, nil
		}
	}
	return nil, dateRepo.ErrRuleNotFound
}

func (f *fakeDateRepo) FindAtHour(_ context.Context, doctorID int64, date time.Time, hour int) (*domain.DateRule, error) {
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.TargetDate.Equal(date) && r.IsActive && r.ContainsHour(hour) {
			return r, nil
		}
	}
	return nil, dateRepo.ErrRuleNotFound
}

func newTestService(weekly []*domain.WeeklyRule, dates []*domain.DateRule) *Service {
	return NewService(&fakeWeeklyRepo{rules: weekly}, &fakeDateRepo{rules: dates}, noopLogger{})
}

// 2 июня 2025 - понедельник (day_of_week = 0)
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestResolve_WeeklyRule(t *testing.T) {
	svc := newTestService([]*domain.WeeklyRule{
		{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, MaxPatients: 4, IsActive: true, Mode: domain.ModeOffline},
	}, nil)

	w, err := svc.Resolve(context.Background(), 7, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, monday.Add(9*time.Hour), w.Start)
	assert.Equal(t, monday.Add(13*time.Hour), w.End)
	assert.Equal(t, 4, w.MaxPatients)
	assert.Equal(t, int64(1), w.RuleID)
	assert.False(t, w.FromDate)
}

func TestResolve_DateRuleTakesPrecedence(t *testing.T) {
	svc := newTestService(
		[]*domain.WeeklyRule{
			{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, MaxPatients: 4, IsActive: true},
		},
		[]*domain.DateRule{
			{ID: 50, DoctorID: 7, TargetDate: monday, StartHour: 10, EndHour: 12, MaxPatients: 2, IsActive: true, Mode: domain.ModeOnline},
		},
	)

	w, err := svc.Resolve(context.Background(), 7, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(50), w.RuleID)
	assert.True(t, w.FromDate)
	assert.Equal(t, 2, w.MaxPatients)
	assert.Equal(t, domain.ModeOnline, w.Mode)
}

func TestResolve_FallsBackToWeeklyWhenDateRuleDoesNotCover(t *testing.T) {
	// Правило на дату есть, но запрошенный интервал оно не покрывает -
	// точечный Resolve откатывается к еженедельному правилу
	svc := newTestService(
		[]*domain.WeeklyRule{
			{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 18, MaxPatients: 4, IsActive: true},
		},
		[]*domain.DateRule{
			{ID: 50, DoctorID: 7, TargetDate: monday, StartHour: 10, EndHour: 12, MaxPatients: 2, IsActive: true},
		},
	)

	w, err := svc.Resolve(context.Background(), 7, monday.Add(15*time.Hour), monday.Add(16*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.RuleID)
	assert.False(t, w.FromDate)
}

func TestResolve_NoWindow(t *testing.T) {
	svc := newTestService([]*domain.WeeklyRule{
		{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, MaxPatients: 4, IsActive: true},
	}, nil)

	// интервал лишь частично пересекает окно
	_, err := svc.Resolve(context.Background(), 7, monday.Add(12*time.Hour), monday.Add(14*time.Hour))
	assert.ErrorIs(t, err, ErrNoWindow)

	// другой день недели
	tuesday := monday.AddDate(0, 0, 1)
	_, err = svc.Resolve(context.Background(), 7, tuesday.Add(10*time.Hour), tuesday.Add(11*time.Hour))
	assert.ErrorIs(t, err, ErrNoWindow)
}

func TestResolve_InvalidIntervals(t *testing.T) {
	svc := newTestService(nil, nil)

	// start после end
	_, err := svc.Resolve(context.Background(), 7, monday.Add(11*time.Hour), monday.Add(10*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// интервал через несколько дней
	_, err = svc.Resolve(context.Background(), 7, monday.Add(22*time.Hour), monday.AddDate(0, 0, 1).Add(10*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolve_MidnightEndTreatedAsHour24(t *testing.T) {
	svc := newTestService([]*domain.WeeklyRule{
		{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 20, EndHour: 24, MaxPatients: 4, IsActive: true},
	}, nil)

	w, err := svc.Resolve(context.Background(), 7, monday.Add(22*time.Hour), monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, monday.Add(20*time.Hour), w.Start)
	assert.Equal(t, monday.AddDate(0, 0, 1), w.End)
}

func TestResolveAt_PointContainment(t *testing.T) {
	svc := newTestService([]*domain.WeeklyRule{
		{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, MaxPatients: 4, IsActive: true},
	}, nil)

	w, err := svc.ResolveAt(context.Background(), 7, monday.Add(9*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.RuleID)

	// правая граница окна точечно не входит
	_, err = svc.ResolveAt(context.Background(), 7, monday.Add(13*time.Hour))
	assert.ErrorIs(t, err, ErrNoWindow)
}

func TestWindowsForDate_DateRulesShadowWeekly(t *testing.T) {
	svc := newTestService(
		[]*domain.WeeklyRule{
			{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, MaxPatients: 4, IsActive: true, Mode: domain.ModeOffline},
			{ID: 2, DoctorID: 7, DayOfWeek: 0, StartHour: 15, EndHour: 18, MaxPatients: 4, IsActive: true, Mode: domain.ModeOffline},
		},
		[]*domain.DateRule{
			{ID: 50, DoctorID: 7, TargetDate: monday, StartHour: 10, EndHour: 12, MaxPatients: 2, IsActive: true, Mode: domain.ModeOnline},
		},
	)

	// правило на дату вытесняет ВСЕ еженедельные окна этого дня,
	// включая вечернее, которое с ним даже не пересекается
	windows, err := svc.WindowsForDate(context.Background(), 7, monday, nil)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, int64(50), windows[0].RuleID)

	// в другой день еженедельные окна возвращаются как есть
	nextMonday := monday.AddDate(0, 0, 7)
	windows, err = svc.WindowsForDate(context.Background(), 7, nextMonday, nil)
	require.NoError(t, err)
	assert.Len(t, windows, 2)
}

func TestWindowsForDate_ModeFilter(t *testing.T) {
	svc := newTestService([]*domain.WeeklyRule{
		{ID: 1, DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 12, MaxPatients: 4, IsActive: true, Mode: domain.ModeOffline},
		{ID: 2, DoctorID: 7, DayOfWeek: 0, StartHour: 14, EndHour: 17, MaxPatients: 4, IsActive: true, Mode: domain.ModeOnline},
	}, nil)

	online := domain.ModeOnline
	windows, err := svc.WindowsForDate(context.Background(), 7, monday, &online)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, int64(2), windows[0].RuleID)
}

func TestWindowsForDate_EmptySchedule(t *testing.T) {
	svc := newTestService(nil, nil)

	windows, err := svc.WindowsForDate(context.Background(), 7, monday, nil)
	require.NoError(t, err)
	assert.Empty(t, windows)
}
