package first_available_date

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	CountOverlapping(ctx context.Context, doctorID int64, start, end time.Time) (int, error)
}

// ScheduleProvider интерфейс источника окон расписания
type ScheduleProvider interface {
	WindowsForDate(ctx context.Context, doctorID int64, date time.Time, mode *domain.VisitMode) ([]domain.ScheduleWindow, error)
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
