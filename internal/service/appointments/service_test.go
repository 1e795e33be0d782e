package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyamin444/RxMeet/internal/domain"
	apptStorage "github.com/eyamin444/RxMeet/internal/infra/storage/appointment"
	"github.com/eyamin444/RxMeet/internal/service/appointments/models"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fakeApptRepo struct {
	appointments map[int64]*domain.Appointment
	lastFilter   *domain.DoctorAppointmentsFilter
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
		return nil, apptStorage.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeApptRepo) ListByPatient(_ context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range f.appointments {
		if a.PatientID != patientID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeApptRepo) ListByDoctorWithFilter(_ context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = &filter
	var out []*domain.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == filter.DoctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApptRepo) Cancel(_ context.Context, id int64, reason string) error {
	a, ok := f.appointments[id]
	if !ok {
		return apptStorage.ErrAppointmentNotFound
	}
	a.Status = domain.StatusCancelled
	a.CancelReason = &reason
	return nil
}

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		DoctorID:      7,
		PatientID:     100,
		StartTime:     day.Add(10 * time.Hour),
		EndTime:       day.Add(11 * time.Hour),
		Status:        status,
		VisitMode:     domain.ModeOffline,
		PaymentStatus: domain.PaymentPending,
	}
}

func TestGetByID(t *testing.T) {
	svc := NewService(newFakeApptRepo(appointment(1, domain.StatusRequested)), noopLogger{})

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusRequested), resp.Status)

	_, err = svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetPatientAppointments_StatusFilter(t *testing.T) {
	repo := newFakeApptRepo(
		appointment(1, domain.StatusRequested),
		appointment(2, domain.StatusApproved),
		appointment(3, domain.StatusCancelled),
	)
	svc := NewService(repo, noopLogger{})

	resp, err := svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{PatientID: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)

	approved := "approved"
	resp, err = svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{
		PatientID: 100,
		Status:    &approved,
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(2), resp.Appointments[0].ID)

	bad := "done"
	_, err = svc.GetPatientAppointments(context.Background(), &models.GetPatientAppointmentsRequest{
		PatientID: 100,
		Status:    &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetDoctorAppointments_FilterParsing(t *testing.T) {
	repo := newFakeApptRepo(appointment(1, domain.StatusApproved))
	svc := NewService(repo, noopLogger{})

	start, end := "2025-06-01", "2025-06-30"
	_, err := svc.GetDoctorAppointments(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID:  7,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter)
	require.NotNil(t, repo.lastFilter.StartDate)
	require.NotNil(t, repo.lastFilter.EndDate)
	assert.Equal(t, 2025, repo.lastFilter.StartDate.Year())

	bad := "01/06/2025"
	_, err = svc.GetDoctorAppointments(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID:  7,
		StartDate: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	repo := newFakeApptRepo(appointment(1, domain.StatusApproved))
	svc := NewService(repo, noopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{Reason: "заболел"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, repo.appointments[1].Status)
	require.NotNil(t, repo.appointments[1].CancelReason)
	assert.Equal(t, "заболел", *repo.appointments[1].CancelReason)
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	repo := newFakeApptRepo(appointment(1, domain.StatusCancelled))
	svc := NewService(repo, noopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_NotFound(t *testing.T) {
	svc := NewService(newFakeApptRepo(), noopLogger{})

	err := svc.Cancel(context.Background(), 42, &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
