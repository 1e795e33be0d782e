package get_available_slots

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	CountExact(ctx context.Context, doctorID int64, start, end time.Time) (int, error)
}

// ScheduleProvider интерфейс источника окон расписания
type ScheduleProvider interface {
	WindowsForDate(ctx context.Context, doctorID int64, date time.Time, mode *domain.VisitMode) ([]domain.ScheduleWindow, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
