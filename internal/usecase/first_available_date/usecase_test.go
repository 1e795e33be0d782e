package first_available_date

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyamin444/RxMeet/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

// fakeApptRepo считает занятость блока по пересечению с хранимыми интервалами
type fakeApptRepo struct {
	appointments []apptInterval
}

type apptInterval struct {
	start, end time.Time
}

func (f *fakeApptRepo) CountOverlapping(_ context.Context, _ int64, start, end time.Time) (int, error) {
	count := 0
	for _, a := range f.appointments {
		if a.start.Before(end) && a.end.After(start) {
			count++
		}
	}
	return count, nil
}

// fakeSchedule выдаёт расписание только на перечисленные даты
type fakeSchedule struct {
	windowsByDate map[string][]domain.ScheduleWindow
}

func (f *fakeSchedule) WindowsForDate(_ context.Context, _ int64, date time.Time, mode *domain.VisitMode) ([]domain.ScheduleWindow, error) {
	out := make([]domain.ScheduleWindow, 0)
	for _, w := range f.windowsByDate[date.Format(domain.DateFormat)] {
		if mode != nil && w.Mode != *mode {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

var today = time.Date(2025, 6, 2, 14, 30, 0, 0, time.Local)

func windowOn(date time.Time, maxPatients int) []domain.ScheduleWindow {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return []domain.ScheduleWindow{
		{Start: midnight.Add(9 * time.Hour), End: midnight.Add(12 * time.Hour), MaxPatients: maxPatients, Mode: domain.ModeOffline, RuleID: 1},
	}
}

func newTestUseCase(repo *fakeApptRepo, sched *fakeSchedule) *UseCase {
	uc := NewUseCase(repo, sched, noopLogger{})
	uc.timeProvider = fixedTime{now: today}
	return uc
}

func TestExecute_TodayHasFreeSlot(t *testing.T) {
	sched := &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{
		"2025-06-02": windowOn(today, 4),
	}}
	uc := newTestUseCase(&fakeApptRepo{}, sched)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, 1, resp.ScannedDays)
}

func TestExecute_SkipsDaysWithoutSchedule(t *testing.T) {
	// расписание есть только через пять дней
	future := today.AddDate(0, 0, 5)
	sched := &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{
		future.Format(domain.DateFormat): windowOn(future, 4),
	}}
	uc := newTestUseCase(&fakeApptRepo{}, sched)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7})
	require.NoError(t, err)
	assert.Equal(t, future.Format(domain.DateFormat), resp.Date)
	assert.Equal(t, 6, resp.ScannedDays)
}

func TestExecute_SkipsFullyBookedDays(t *testing.T) {
	// единственный блок горизонта выбран до вместимости
	midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	sched := &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{
		"2025-06-02": windowOn(today, 2),
	}}
	repo := &fakeApptRepo{appointments: []apptInterval{
		{start: midnight.Add(9 * time.Hour), end: midnight.Add(10 * time.Hour)},
		{start: midnight.Add(10 * time.Hour), end: midnight.Add(11 * time.Hour)},
	}}
	uc := newTestUseCase(repo, sched)

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 7})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestExecute_BlockConsumedByOverlapIsFull(t *testing.T) {
	// приёмы с нестандартными границами не совпадают ни с одним часовым
	// слотом, но блок 14:00-16:00 на двоих они выбирают целиком
	midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	sched := &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{
		"2025-06-02": {
			{Start: midnight.Add(14 * time.Hour), End: midnight.Add(16 * time.Hour), MaxPatients: 2, Mode: domain.ModeOffline, RuleID: 1},
		},
	}}
	repo := &fakeApptRepo{appointments: []apptInterval{
		{start: midnight.Add(14*time.Hour + 30*time.Minute), end: midnight.Add(15*time.Hour + 20*time.Minute)},
		{start: midnight.Add(15*time.Hour + 10*time.Minute), end: midnight.Add(15*time.Hour + 50*time.Minute)},
	}}
	uc := newTestUseCase(repo, sched)

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 7})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestExecute_FromDateOverridesToday(t *testing.T) {
	sched := &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{
		"2025-06-02": windowOn(today, 4),
		"2025-07-01": windowOn(time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local), 4),
	}}
	uc := newTestUseCase(&fakeApptRepo{}, sched)

	from := "2025-06-15"
	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, FromDate: &from})
	require.NoError(t, err)
	// сегодняшняя доступность позади стартовой даты не учитывается
	assert.Equal(t, "2025-07-01", resp.Date)
}

func TestExecute_NoScheduleAtAllHitsHorizon(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{}, &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{}})

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 7})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestExecute_AvailabilityBeyondHorizonNotFound(t *testing.T) {
	// свободный день есть, но за пределами горизонта сканирования
	beyond := today.AddDate(0, 0, domain.MaxDateScanDays)
	sched := &fakeSchedule{windowsByDate: map[string][]domain.ScheduleWindow{
		beyond.Format(domain.DateFormat): windowOn(beyond, 4),
	}}
	uc := newTestUseCase(&fakeApptRepo{}, sched)

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 7})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{}, &fakeSchedule{})

	bad := "июнь"
	_, err := uc.Execute(context.Background(), &Request{DoctorID: 7, FromDate: &bad})
	assert.ErrorIs(t, err, ErrInvalidDate)

	hybrid := "hybrid"
	_, err = uc.Execute(context.Background(), &Request{DoctorID: 7, Mode: &hybrid})
	assert.ErrorIs(t, err, ErrInvalidMode)
}
