package appointment

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

var appointmentColumns = []string{
	"id",
	"doctor_id",
	"patient_id",
	"start_time",
	"end_time",
	"status",
	"visit_mode",
	"serial_number",
	"estimated_visit_time",
	"payment_status",
	"notes",
	"cancel_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с приёмами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория приёмов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый приём в статусе requested
// Проверка вместимости слота выполняется на уровне usecase до вставки;
// репозиторий никаких ограничений не навешивает
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"doctor_id",
			"patient_id",
			"start_time",
			"end_time",
			"status",
			"visit_mode",
			"payment_status",
			"notes",
		).
		Values(
			appt.DoctorID,
			appt.PatientID,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
			appt.VisitMode,
			appt.PaymentStatus,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает приём по ID
// Внутри транзакции добавляет FOR UPDATE - подтверждение блокирует строку
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListByPatient получает приёмы пациента, опционально фильтруя по статусу
func (r *Repository) ListByPatient(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("start_time DESC, id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPatient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPatient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByDoctorWithFilter получает приёмы врача с фильтрацией по периоду и статусу
func (r *Repository) ListByDoctorWithFilter(ctx context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"doctor_id": filter.DoctorID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		// Конец периода - эксклюзивная полночь следующего дня
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.EndDate.AddDate(0, 0, 1)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		terminal := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminal[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminal})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC, id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// CountExact подсчитывает активные приёмы с точно совпадающими началом и концом
// Используется путём почасовых слотов и проверкой бронирования
func (r *Repository) CountExact(ctx context.Context, doctorID int64, start, end time.Time) (int, error) {
	return r.count(ctx, "CountExact", squirrel.And{
		squirrel.Eq{"doctor_id": doctorID},
		squirrel.Eq{"start_time": start},
		squirrel.Eq{"end_time": end},
		activeStatusPredicate(),
	})
}

// CountOverlapping подсчитывает активные приёмы, пересекающие окно [start, end)
// Используется путём блоков: ловит приёмы нестандартной длительности,
// частично задевающие многочасовое окно
func (r *Repository) CountOverlapping(ctx context.Context, doctorID int64, start, end time.Time) (int, error) {
	return r.count(ctx, "CountOverlapping", squirrel.And{
		squirrel.Eq{"doctor_id": doctorID},
		squirrel.Lt{"start_time": end},
		squirrel.Gt{"end_time": start},
		activeStatusPredicate(),
	})
}

func (r *Repository) count(ctx context.Context, op string, pred squirrel.Sqlizer) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(pred).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build count query: %v", ErrBuildQuery, op, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %v", ErrScanRow, op, err)
	}

	return count, nil
}

// MaxSerialInRange возвращает максимальный serial_number среди приёмов врача,
// начинающихся в [from, to), исключая excludeID. 0 - если серийников ещё нет
// Это повторное сканирование на момент подтверждения, а не внешний счётчик
func (r *Repository) MaxSerialInRange(ctx context.Context, doctorID int64, from, to time.Time, excludeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(MAX(serial_number), 0)").
		From("appointments").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.NotEq{"id": excludeID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxSerialInRange - build select query: %v", ErrBuildQuery, err)
	}

	var maxSerial int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&maxSerial); err != nil {
		return 0, fmt.Errorf("%w: MaxSerialInRange - scan max serial: %v", ErrScanRow, err)
	}

	return maxSerial, nil
}

// Approve переводит приём в approved с назначенными серийником и расчётным временем
func (r *Repository) Approve(ctx context.Context, id int64, serial int, estimated *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusApproved).
		Set("serial_number", serial).
		Set("estimated_visit_time", estimated).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Approve - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Approve")
}

// Reject переводит приём в rejected; серийник не назначается
func (r *Repository) Reject(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusRejected).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reject - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Reject")
}

// Cancel переводит приём в cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancel_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Cancel")
}

// Reschedule переносит приём на новое время
// Серийник и расчётное время сбрасываются, статус возвращается в requested -
// перенесённый приём заново проходит подтверждение
func (r *Repository) Reschedule(ctx context.Context, id int64, newStart, newEnd time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("start_time", newStart).
		Set("end_time", newEnd).
		Set("status", domain.StatusRequested).
		Set("serial_number", nil).
		Set("estimated_visit_time", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "Reschedule")
}

// HasPayment проверяет, записан ли платёж за приём внешним платёжным сервисом
func (r *Repository) HasPayment(ctx context.Context, appointmentID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("payments").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasPayment - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasPayment - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// MarkPaymentPaid отмечает платёжный статус приёма как paid
func (r *Repository) MarkPaymentPaid(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("payment_status", domain.PaymentPaid).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaymentPaid - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "MarkPaymentPaid")
}

// activeStatusPredicate предикат "приём занимает вместимость"
func activeStatusPredicate() squirrel.Sqlizer {
	active := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		active[i] = string(s)
	}
	return squirrel.Eq{"status": active}
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var serial sql.NullInt64
	var estimated, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.DoctorID,
		&appt.PatientID,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.VisitMode,
		&serial,
		&estimated,
		&appt.PaymentStatus,
		&appt.Notes,
		&appt.CancelReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if serial.Valid {
		v := int(serial.Int64)
		appt.SerialNumber = &v
	}
	if estimated.Valid {
		t := estimated.Time
		appt.EstimatedVisitTime = &t
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appts := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appts, nil
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
		return ErrAppointmentNotFound
	}

	return nil
}
