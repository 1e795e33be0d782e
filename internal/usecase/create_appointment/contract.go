package create_appointment

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	"github.com/eyamin444/RxMeet/internal/integrations/directory"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	CountExact(ctx context.Context, doctorID int64, start, end time.Time) (int, error)
}

// ScheduleResolver интерфейс резолвера окон расписания
type ScheduleResolver interface {
	Resolve(ctx context.Context, doctorID int64, start, end time.Time) (*domain.ScheduleWindow, error)
}

// DirectoryClient интерфейс клиента справочника врачей и пациентов
type DirectoryClient interface {
	GetDoctorWithGracefulDegradation(ctx context.Context, doctorID int64) (*directory.Doctor, error)
	GetPatientWithGracefulDegradation(ctx context.Context, patientID int64) (*directory.Patient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
