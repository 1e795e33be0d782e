package approve_appointment

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	MaxSerialInRange(ctx context.Context, doctorID int64, from, to time.Time, excludeID int64) (int, error)
	Approve(ctx context.Context, id int64, serial int, estimated *time.Time) error
	Reject(ctx context.Context, id int64) error
	HasPayment(ctx context.Context, appointmentID int64) (bool, error)
	MarkPaymentPaid(ctx context.Context, id int64) error
}

// ScheduleResolver интерфейс резолвера окон расписания
type ScheduleResolver interface {
	ResolveAt(ctx context.Context, doctorID int64, t time.Time) (*domain.ScheduleWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
