package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyamin444/RxMeet/internal/domain"
	apptRepo "github.com/eyamin444/RxMeet/internal/infra/storage/appointment"
	"github.com/eyamin444/RxMeet/internal/service/schedule"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeApptRepo struct {
	appt        *domain.Appointment
	booked      int
	rescheduled bool
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *f.appt
	return &copied, nil
}

func (f *fakeApptRepo) CountExact(_ context.Context, _ int64, _, _ time.Time) (int, error) {
	return f.booked, nil
}

func (f *fakeApptRepo) Reschedule(_ context.Context, id int64, newStart, newEnd time.Time) error {
	f.rescheduled = true
	f.appt.StartTime = newStart
	f.appt.EndTime = newEnd
	f.appt.Status = domain.StatusRequested
	f.appt.SerialNumber = nil
	f.appt.EstimatedVisitTime = nil
	return nil
}

type fakeResolver struct {
	window *domain.ScheduleWindow
}

func (f *fakeResolver) Resolve(_ context.Context, _ int64, _, _ time.Time) (*domain.ScheduleWindow, error) {
	if f.window == nil {
		return nil, schedule.ErrNoWindow
	}
	copied := *f.window
	return &copied, nil
}

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func approvedAppointment() *domain.Appointment {
	serial := 2
	estimated := day.Add(10 * time.Hour)
	return &domain.Appointment{
		ID:                 1,
		DoctorID:           7,
		PatientID:          100,
		StartTime:          day.Add(10 * time.Hour),
		EndTime:            day.Add(11 * time.Hour),
		Status:             domain.StatusApproved,
		VisitMode:          domain.ModeOffline,
		SerialNumber:       &serial,
		EstimatedVisitTime: &estimated,
		PaymentStatus:      domain.PaymentPending,
	}
}

func testWindow() *domain.ScheduleWindow {
	return &domain.ScheduleWindow{
		Start:       day.Add(9 * time.Hour),
		End:         day.Add(13 * time.Hour),
		MaxPatients: 4,
		Mode:        domain.ModeOffline,
		RuleID:      1,
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeApptRepo{appt: approvedAppointment()}
	uc := NewUseCase(repo, &fakeResolver{window: testWindow()}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		NewStartTime:  day.Add(11 * time.Hour),
	})
	require.NoError(t, err)

	assert.True(t, repo.rescheduled)
	// перенесённый приём возвращается в requested и теряет серийник
	assert.Equal(t, string(domain.StatusRequested), resp.Status)
	assert.Nil(t, repo.appt.SerialNumber)
	assert.Nil(t, repo.appt.EstimatedVisitTime)
	assert.Equal(t, day.Add(11*time.Hour), resp.StartTime)
	assert.Equal(t, day.Add(12*time.Hour), resp.EndTime)
}

func TestExecute_CannotRescheduleTerminalStatus(t *testing.T) {
	appt := approvedAppointment()
	appt.Status = domain.StatusCancelled

	repo := &fakeApptRepo{appt: appt}
	uc := NewUseCase(repo, &fakeResolver{window: testWindow()}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		NewStartTime:  day.Add(11 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)
	assert.False(t, repo.rescheduled)
}

func TestExecute_OutsideSchedule(t *testing.T) {
	repo := &fakeApptRepo{appt: approvedAppointment()}
	uc := NewUseCase(repo, &fakeResolver{window: nil}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		NewStartTime:  day.Add(20 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestExecute_NewSlotFull(t *testing.T) {
	repo := &fakeApptRepo{appt: approvedAppointment(), booked: 4}
	uc := NewUseCase(repo, &fakeResolver{window: testWindow()}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		NewStartTime:  day.Add(11 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.False(t, repo.rescheduled)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{}, &fakeResolver{window: testWindow()}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		NewStartTime:  day.Add(11 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_InvalidTimeRange(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{appt: approvedAppointment()}, &fakeResolver{window: testWindow()}, passthroughTxManager{}, noopLogger{})

	end := day.Add(10 * time.Hour)
	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		NewStartTime:  day.Add(11 * time.Hour),
		NewEndTime:    &end,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
