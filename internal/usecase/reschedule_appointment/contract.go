package reschedule_appointment

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	CountExact(ctx context.Context, doctorID int64, start, end time.Time) (int, error)
	Reschedule(ctx context.Context, id int64, newStart, newEnd time.Time) error
}

// ScheduleResolver интерфейс резолвера окон расписания
type ScheduleResolver interface {
	Resolve(ctx context.Context, doctorID int64, start, end time.Time) (*domain.ScheduleWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
