package rules

import (
	"context"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	"github.com/eyamin444/RxMeet/internal/integrations/directory"
)

// WeeklyRuleRepository интерфейс репозитория еженедельных правил
type WeeklyRuleRepository interface {
	Create(ctx context.Context, rule *domain.WeeklyRule) (*domain.WeeklyRule, error)
	GetByID(ctx context.Context, id int64) (*domain.WeeklyRule, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.WeeklyRule, error)
	Update(ctx context.Context, rule *domain.WeeklyRule) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	DeleteByDoctorAndDays(ctx context.Context, doctorID int64, days []int) error
}

// DateRuleRepository интерфейс репозитория правил на конкретную дату
type DateRuleRepository interface {
	Create(ctx context.Context, rule *domain.DateRule) (*domain.DateRule, error)
	GetByID(ctx context.Context, id int64) (*domain.DateRule, error)
	ListByDoctorBetween(ctx context.Context, doctorID int64, from, to time.Time) ([]*domain.DateRule, error)
	Update(ctx context.Context, rule *domain.DateRule) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// DirectoryClient интерфейс клиента справочника врачей и пациентов
type DirectoryClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*directory.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
