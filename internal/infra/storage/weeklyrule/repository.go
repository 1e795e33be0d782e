package weeklyrule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/eyamin444/RxMeet/internal/domain"
	"github.com/eyamin444/RxMeet/pkg/dbmetrics"
	"github.com/eyamin444/RxMeet/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"doctor_id",
	"day_of_week",
	"start_hour",
	"end_hour",
	"max_patients",
	"active",
	"mode",
	"created_at",
}

// Repository репозиторий для работы с еженедельными правилами расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория еженедельных правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое еженедельное правило
func (r *Repository) Create(ctx context.Context, rule *domain.WeeklyRule) (*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_rules").
		Columns(
			"doctor_id",
			"day_of_week",
			"start_hour",
			"end_hour",
			"max_patients",
			"active",
			"mode",
		).
		Values(
			rule.DoctorID,
			rule.DayOfWeek,
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
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("weekly_rules").
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

// ListByDoctor получает все правила врача (включая выключенные)
// Сортировка по дню недели и началу окна - для выдачи расписания
func (r *Repository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("weekly_rules").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("day_of_week ASC, start_hour ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// ListActiveByDay получает активные правила врача на день недели
// Сортировка по id ASC фиксирует детерминированный tie-break "первое совпадение"
func (r *Repository) ListActiveByDay(ctx context.Context, doctorID int64, dayOfWeek int) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("weekly_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"day_of_week": dayOfWeek,
			"active":      true,
		}).
		OrderBy("start_hour ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// FindContaining находит первое активное правило, полностью покрывающее
// диапазон [startHour, endHour) в указанный день недели
func (r *Repository) FindContaining(ctx context.Context, doctorID int64, dayOfWeek, startHour, endHour int) (*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("weekly_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"day_of_week": dayOfWeek,
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

// FindAtHour находит первое активное правило, окно которого содержит
// указанный час: start_hour <= hour < end_hour
func (r *Repository) FindAtHour(ctx context.Context, doctorID int64, dayOfWeek, hour int) (*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("weekly_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"day_of_week": dayOfWeek,
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
func (r *Repository) Update(ctx context.Context, rule *domain.WeeklyRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("weekly_rules").
		Set("day_of_week", rule.DayOfWeek).
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

	query, args, err := psqlbuilder.Update("weekly_rules").
		Set("active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "SetActive")
}

// Delete безусловно удаляет правило
// Правила не являются внешними ключами приёмов, проверка зависимостей не нужна
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Delete")
}

// DeleteByDoctorAndDays удаляет все правила врача на перечисленные дни недели
// Используется при массовой замене расписания
func (r *Repository) DeleteByDoctorAndDays(ctx context.Context, doctorID int64, days []int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_rules").
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"day_of_week": days,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByDoctorAndDays - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByDoctorAndDays - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.WeeklyRule, error) {
	var rule domain.WeeklyRule
	var createdAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.DoctorID,
		&rule.DayOfWeek,
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

func scanRules(rows *sql.Rows) ([]*domain.WeeklyRule, error) {
	rules := make([]*domain.WeeklyRule, 0)

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
