package get_available_slots

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

type slotKey struct {
	start time.Time
	end   time.Time
}

// fakeApptRepo отвечает занятостью по точным границам слота
type fakeApptRepo struct {
	booked map[slotKey]int
}

func (f *fakeApptRepo) CountExact(_ context.Context, _ int64, start, end time.Time) (int, error) {
	return f.booked[slotKey{start: start, end: end}], nil
}

type fakeSchedule struct {
	windows []domain.ScheduleWindow
}

func (f *fakeSchedule) WindowsForDate(_ context.Context, _ int64, _ time.Time, mode *domain.VisitMode) ([]domain.ScheduleWindow, error) {
	out := make([]domain.ScheduleWindow, 0)
	for _, w := range f.windows {
		if mode != nil && w.Mode != *mode {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

func TestExecute_HourlySubdivision(t *testing.T) {
	sched := &fakeSchedule{windows: []domain.ScheduleWindow{
		{Start: day.Add(9 * time.Hour), End: day.Add(12 * time.Hour), MaxPatients: 3, Mode: domain.ModeOffline, RuleID: 1},
	}}
	repo := &fakeApptRepo{booked: map[slotKey]int{
		{start: day.Add(10 * time.Hour), end: day.Add(11 * time.Hour)}: 3,
		{start: day.Add(11 * time.Hour), end: day.Add(12 * time.Hour)}: 1,
	}}

	uc := NewUseCase(repo, sched, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: "2025-06-02"})
	require.NoError(t, err)

	// слот 10-11 заполнен под завязку и в выдачу не попадает
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, day.Add(9*time.Hour), resp.Slots[0].StartTime)
	assert.Equal(t, day.Add(10*time.Hour), resp.Slots[0].EndTime)
	assert.Equal(t, 0, resp.Slots[0].Booked)

	assert.Equal(t, day.Add(11*time.Hour), resp.Slots[1].StartTime)
	assert.Equal(t, 1, resp.Slots[1].Booked)
}

func TestExecute_MultipleWindows(t *testing.T) {
	sched := &fakeSchedule{windows: []domain.ScheduleWindow{
		{Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour), MaxPatients: 4, Mode: domain.ModeOffline, RuleID: 1},
		{Start: day.Add(15 * time.Hour), End: day.Add(17 * time.Hour), MaxPatients: 2, Mode: domain.ModeOnline, RuleID: 2},
	}}
	uc := NewUseCase(&fakeApptRepo{booked: map[slotKey]int{}}, sched, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: "2025-06-02"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	// вместимость слота наследуется от своего окна
	assert.Equal(t, 4, resp.Slots[0].MaxPatients)
	assert.Equal(t, string(domain.ModeOffline), resp.Slots[0].Mode)
	assert.Equal(t, 2, resp.Slots[2].MaxPatients)
	assert.Equal(t, string(domain.ModeOnline), resp.Slots[2].Mode)
}

func TestExecute_ModeFilter(t *testing.T) {
	sched := &fakeSchedule{windows: []domain.ScheduleWindow{
		{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour), MaxPatients: 4, Mode: domain.ModeOffline, RuleID: 1},
		{Start: day.Add(15 * time.Hour), End: day.Add(16 * time.Hour), MaxPatients: 2, Mode: domain.ModeOnline, RuleID: 2},
	}}
	uc := NewUseCase(&fakeApptRepo{booked: map[slotKey]int{}}, sched, noopLogger{})

	online := "online"
	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: "2025-06-02", Mode: &online})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, day.Add(15*time.Hour), resp.Slots[0].StartTime)
}

func TestExecute_EmptySchedule(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{booked: map[slotKey]int{}}, &fakeSchedule{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{booked: map[slotKey]int{}}, &fakeSchedule{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: "02.06.2025"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	hybrid := "hybrid"
	_, err = uc.Execute(context.Background(), &Request{DoctorID: 7, Date: "2025-06-02", Mode: &hybrid})
	assert.ErrorIs(t, err, ErrInvalidMode)
}
