package daterule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/eyamin444/RxMeet/internal/domain"
	"github.com/eyamin444/RxMeet/pkg/dbmetrics"
	"github.com/eyamin444/RxMeet/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"doctor_id",
	"target_date",
	"start_hour",
	"end_hour",
	"max_patients",
	"active",
	"mode",
	"created_at",
}

// Repository репозиторий для работы с правилами на конкретную дату
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил на дату
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое правило на дату
func (r *Repository) Create(ctx context.Context, rule *domain.DateRule) (*domain.DateRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("date_rules").
		Columns(
			"doctor_id",
			"target_date",
			"start_hour",
			"end_hour",
			"max_patients",
			"active",
			"mode",
		).
		Values(
			rule.DoctorID,
			rule.TargetDate,
			rule.StartHour,
			rule.EndHour,
			rule.MaxPatients,
			rule.IsActive,
			rule.Mode,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time

	return rule, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.DateRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("date_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// ListByDoctorBetween получает правила врача в диапазоне дат (включительно)
// Используется выдачей расписания, где горизонт ограничен +-90 днями
func (r *Repository) ListByDoctorBetween(ctx context.Context, doctorID int64, from, to time.Time) ([]*domain.DateRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("date_rules").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.GtOrEq{"target_date": from}).
		Where(squirrel.LtOrEq{"target_date": to}).
		OrderBy("target_date ASC, start_hour ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// ListActiveByDate получает активные правила врача на конкретную дату
// Наличие хотя бы одного такого правила полностью вытесняет еженедельные
// правила этой даты в генераторе блоков и слотов
func (r *Repository) ListActiveByDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.DateRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("date_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"target_date": date,
			"active":      true,
		}).
		OrderBy("start_hour ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// FindContaining находит первое активное правило даты, полностью покрывающее
// диапазон [startHour, endHour)
func (r *Repository) FindContaining(ctx context.Context, doctorID int64, date time.Time, startHour, endHour int) (*domain.DateRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("date_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"target_date": date,
			"active":      true,
		}).
		Where(squirrel.LtOrEq{"start_hour": startHour}).
		Where(squirrel.GtOrEq{"end_hour": endHour}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindContaining - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindContaining - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// FindAtHour находит первое активное правило даты, окно которого содержит
// указанный час: start_hour <= hour < end_hour
func (r *Repository) FindAtHour(ctx context.Context, doctorID int64, date time.Time, hour int) (*domain.DateRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("date_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"target_date": date,
			"active":      true,
		}).
		Where(squirrel.LtOrEq{"start_hour": hour}).
		Where(squirrel.Gt{"end_hour": hour}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindAtHour - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindAtHour - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// Update обновляет параметры правила
func (r *Repository) Update(ctx context.Context, rule *domain.DateRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("date_rules").
		Set("target_date", rule.TargetDate).
		Set("start_hour", rule.StartHour).
		Set("end_hour", rule.EndHour).
		Set("max_patients", rule.MaxPatients).
		Set("active", rule.IsActive).
		Set("mode", rule.Mode).
		Where(squirrel.Eq{"id": rule.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Update")
}

// SetActive включает или выключает правило, не трогая его конфигурацию
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("date_rules").
		Set("active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "SetActive")
}

// Delete безусловно удаляет правило
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Delete")
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.DateRule, error) {
	var rule domain.DateRule
	var createdAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.DoctorID,
		&rule.TargetDate,
		&rule.StartHour,
		&rule.EndHour,
		&rule.MaxPatients,
		&rule.IsActive,
		&rule.Mode,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	rule.CreatedAt = createdAt.Time
	return &rule, nil
}

func scanRules(rows *sql.Rows) ([]*domain.DateRule, error) {
	rules := make([]*domain.DateRule, 0)

	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

func execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}
