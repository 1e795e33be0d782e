package approve_appointment

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

// fakeApptRepo хранит приёмы в памяти и эмулирует семантику репозитория:
// MaxSerialInRange считает по полуоткрытому интервалу [from, to)
type fakeApptRepo struct {
	appointments map[int64]*domain.Appointment
	hasPayment   bool
}

func newFakeApptRepo(appts ...*domain.Appointment) *fakeApptRepo {
	m := make(map[int64]*domain.Appointment)
	for _, a := range appts {
		m[a.ID] = a
	}
	return &fakeApptRepo{appointments: m}
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeApptRepo) MaxSerialInRange(_ context.Context, doctorID int64, from, to time.Time, excludeID int64) (int, error) {
	max := 0
	for _, a := range f.appointments {
		if a.DoctorID != doctorID || a.ID == excludeID || a.SerialNumber == nil {
			continue
		}
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		if *a.SerialNumber > max {
			max = *a.SerialNumber
		}
	}
	return max, nil
}

func (f *fakeApptRepo) Approve(_ context.Context, id int64, serial int, estimated *time.Time) error {
	a := f.appointments[id]
	a.Status = domain.StatusApproved
	a.SerialNumber = &serial
	a.EstimatedVisitTime = estimated
	return nil
}

func (f *fakeApptRepo) Reject(_ context.Context, id int64) error {
	f.appointments[id].Status = domain.StatusRejected
	return nil
}

func (f *fakeApptRepo) HasPayment(_ context.Context, _ int64) (bool, error) {
	return f.hasPayment, nil
}

func (f *fakeApptRepo) MarkPaymentPaid(_ context.Context, id int64) error {
	f.appointments[id].PaymentStatus = domain.PaymentPaid
	return nil
}

// fakeResolver возвращает одно фиксированное окно либо ErrNoWindow
type fakeResolver struct {
	window *domain.ScheduleWindow
}

func (f *fakeResolver) ResolveAt(_ context.Context, _ int64, _ time.Time) (*domain.ScheduleWindow, error) {
	if f.window == nil {
		return nil, schedule.ErrNoWindow
	}
	copied := *f.window
	return &copied, nil
}

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// окно 9:00-13:00 на 4 пациентов: слот 60 минут
func morningWindow() *domain.ScheduleWindow {
	return &domain.ScheduleWindow{
		Start:       day.Add(9 * time.Hour),
		End:         day.Add(13 * time.Hour),
		MaxPatients: 4,
		Mode:        domain.ModeOffline,
		RuleID:      1,
	}
}

func requestedAppointment(id int64, startHour int) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		DoctorID:      7,
		PatientID:     100 + id,
		StartTime:     day.Add(time.Duration(startHour) * time.Hour),
		EndTime:       day.Add(time.Duration(startHour+1) * time.Hour),
		Status:        domain.StatusRequested,
		VisitMode:     domain.ModeOffline,
		PaymentStatus: domain.PaymentPending,
	}
}

func TestExecute_ApproveFirstInWindow(t *testing.T) {
	repo := newFakeApptRepo(requestedAppointment(1, 10))
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	require.NotNil(t, resp.SerialNumber)
	assert.Equal(t, 1, *resp.SerialNumber)
	// первый в очереди принимается в начале окна, а не в свой час
	require.NotNil(t, resp.EstimatedVisitTime)
	assert.Equal(t, day.Add(9*time.Hour), *resp.EstimatedVisitTime)
}

func TestExecute_SerialsAreSequential(t *testing.T) {
	repo := newFakeApptRepo(
		requestedAppointment(1, 9),
		requestedAppointment(2, 10),
		requestedAppointment(3, 12),
	)
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	for i, id := range []int64{1, 2, 3} {
		resp, err := uc.Execute(context.Background(), &Request{AppointmentID: id, Decision: DecisionApprove})
		require.NoError(t, err)
		require.NotNil(t, resp.SerialNumber)
		assert.Equal(t, i+1, *resp.SerialNumber)

		// расчётное время сдвигается на слот (60 минут) с каждым номером
		wantEstimated := day.Add(9 * time.Hour).Add(time.Duration(i) * time.Hour)
		assert.Equal(t, wantEstimated, *resp.EstimatedVisitTime)
	}
}

func TestExecute_EstimatedUsesSlotMinutes(t *testing.T) {
	// окно 9:00-11:00 на 4 пациентов: слот 30 минут
	window := &domain.ScheduleWindow{
		Start:       day.Add(9 * time.Hour),
		End:         day.Add(11 * time.Hour),
		MaxPatients: 4,
		Mode:        domain.ModeOffline,
		RuleID:      1,
	}

	serial := 2
	already := requestedAppointment(1, 9)
	already.Status = domain.StatusApproved
	already.SerialNumber = &serial

	repo := newFakeApptRepo(already, requestedAppointment(2, 10))
	uc := NewUseCase(repo, &fakeResolver{window: window}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 2, Decision: DecisionApprove})
	require.NoError(t, err)

	require.NotNil(t, resp.SerialNumber)
	assert.Equal(t, 3, *resp.SerialNumber)
	assert.Equal(t, day.Add(10*time.Hour), *resp.EstimatedVisitTime)
}

func TestExecute_SerialsOutsideWindowIgnored(t *testing.T) {
	// подтверждённый приём другого окна (вечер) не влияет на утреннюю очередь
	serial := 5
	evening := requestedAppointment(1, 15)
	evening.Status = domain.StatusApproved
	evening.SerialNumber = &serial

	repo := newFakeApptRepo(evening, requestedAppointment(2, 10))
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 2, Decision: DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, 1, *resp.SerialNumber)
}

func TestExecute_Reject(t *testing.T) {
	repo := newFakeApptRepo(requestedAppointment(1, 10))
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionReject})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	assert.Nil(t, resp.SerialNumber)
	assert.Nil(t, resp.EstimatedVisitTime)
	assert.Equal(t, domain.StatusRejected, repo.appointments[1].Status)
}

func TestExecute_AlreadyProcessed(t *testing.T) {
	appt := requestedAppointment(1, 10)
	appt.Status = domain.StatusApproved

	repo := newFakeApptRepo(appt)
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestExecute_InvalidDecision(t *testing.T) {
	uc := NewUseCase(newFakeApptRepo(), &fakeResolver{}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(newFakeApptRepo(), &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, Decision: DecisionApprove})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_DegenerateWindowWhenNoRuleCovers(t *testing.T) {
	// расписание не покрывает начало приёма: приём становится собственным
	// окном на одного пациента - серийник 1, расчётное время равно началу
	repo := newFakeApptRepo(requestedAppointment(1, 10))
	uc := NewUseCase(repo, &fakeResolver{window: nil}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	require.NoError(t, err)

	require.NotNil(t, resp.SerialNumber)
	assert.Equal(t, 1, *resp.SerialNumber)
	assert.Equal(t, day.Add(10*time.Hour), *resp.EstimatedVisitTime)
}

func TestExecute_DegenerateWindowIgnoresOtherAppointmentsOfDay(t *testing.T) {
	// чужой приём того же дня с большим серийником не сдвигает очередь
	// вырожденного окна: оно ограничено границами самого приёма
	evening := requestedAppointment(2, 18)
	evening.Status = domain.StatusApproved
	serial := 3
	evening.SerialNumber = &serial

	repo := newFakeApptRepo(requestedAppointment(1, 10), evening)
	uc := NewUseCase(repo, &fakeResolver{window: nil}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	require.NoError(t, err)

	require.NotNil(t, resp.SerialNumber)
	assert.Equal(t, 1, *resp.SerialNumber)
	assert.Equal(t, day.Add(10*time.Hour), *resp.EstimatedVisitTime)
}

func TestExecute_MissingStartTime(t *testing.T) {
	broken := requestedAppointment(1, 10)
	broken.StartTime = time.Time{}
	broken.EndTime = time.Time{}

	repo := newFakeApptRepo(broken)
	uc := NewUseCase(repo, &fakeResolver{window: nil}, passthroughTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	assert.ErrorIs(t, err, ErrMissingStartTime)
}

func TestExecute_PaymentMarkedPaid(t *testing.T) {
	repo := newFakeApptRepo(requestedAppointment(1, 10))
	repo.hasPayment = true
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, domain.PaymentPaid, repo.appointments[1].PaymentStatus)
}

func TestExecute_NoPaymentRecordKeepsPending(t *testing.T) {
	repo := newFakeApptRepo(requestedAppointment(1, 10))
	uc := NewUseCase(repo, &fakeResolver{window: morningWindow()}, passthroughTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, Decision: DecisionApprove})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
}
