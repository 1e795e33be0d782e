package schedule

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// WeeklyRuleRepository интерфейс репозитория еженедельных правил
type WeeklyRuleRepository interface {
	ListActiveByDay(ctx context.Context, doctorID int64, dayOfWeek int) ([]*domain.WeeklyRule, error)
	FindContaining(ctx context.Context, doctorID int64, dayOfWeek, startHour, endHour int) (*domain.WeeklyRule, error)
	FindAtHour(ctx context.Context, doctorID int64, dayOfWeek, hour int) (*domain.WeeklyRule, error)
}

// DateRuleRepository интерфейс репозитория правил на конкретную дату
type DateRuleRepository interface {
	ListActiveByDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.DateRule, error)
	FindContaining(ctx context.Context, doctorID int64, date time.Time, startHour, endHour int) (*domain.DateRule, error)
	FindAtHour(ctx context.Context, doctorID int64, date time.Time, hour int) (*domain.DateRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
