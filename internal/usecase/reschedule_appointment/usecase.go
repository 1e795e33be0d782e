package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	apptRepo "github.com/eyamin444/RxMeet/internal/infra/storage/appointment"
	"github.com/eyamin444/RxMeet/internal/service/schedule"
)

// UseCase use case переноса приёма на новое время
// Перенесённый приём теряет серийник и заново проходит подтверждение
type UseCase struct {
	apptRepo        AppointmentRepository
	scheduleService ScheduleResolver
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	scheduleService ScheduleResolver,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:        apptRepo,
		scheduleService: scheduleService,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case переноса приёма
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment id=%d, new start=%s",
		req.AppointmentID, req.NewStartTime.Format(domain.DateTimeFormat))

	// 1. Валидация временного диапазона
	newEnd := req.NewStartTime.Add(time.Duration(domain.SlotStepMinutes) * time.Minute)
	if req.NewEndTime != nil {
		newEnd = *req.NewEndTime
	}
	if !req.NewStartTime.Before(newEnd) {
		uc.logger.Warn("RescheduleAppointment: start=%s is not before end=%s",
			req.NewStartTime.Format(domain.DateTimeFormat), newEnd.Format(domain.DateTimeFormat))
		return nil, ErrInvalidTimeRange
	}

	var result *Response

	// 2. Проверка статуса, вместимости нового слота и перенос - в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем приём с блокировкой
		appt, err := uc.apptRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Переносить можно только активный приём
		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d cannot be rescheduled, status=%s",
				appt.ID, appt.Status)
			return ErrCannotReschedule
		}

		// 2.3. Новое время должно попадать в окно расписания
		window, err := uc.scheduleService.Resolve(txCtx, appt.DoctorID, req.NewStartTime, newEnd)
		if err != nil {
			if errors.Is(err, schedule.ErrNoWindow) || errors.Is(err, schedule.ErrInvalidInput) {
				uc.logger.Warn("RescheduleAppointment: no window for doctor=%d at %s",
					appt.DoctorID, req.NewStartTime.Format(domain.DateTimeFormat))
				return ErrOutsideSchedule
			}
			uc.logger.Error("RescheduleAppointment: window resolution failed: %v", err)
			return fmt.Errorf("%w: window resolution failed: %v", ErrInternal, err)
		}

		// 2.4. Проверяем вместимость нового слота
		// Сам переносимый приём в счёт не попадает: его время ещё старое
		booked, err := uc.apptRepo.CountExact(txCtx, appt.DoctorID, req.NewStartTime, newEnd)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to count slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to count slot occupancy: %v", ErrInternal, err)
		}
		if booked >= window.MaxPatients {
			uc.logger.Warn("RescheduleAppointment: new slot full, %d/%d spots taken", booked, window.MaxPatients)
			return ErrSlotFull
		}

		// 2.5. Переносим: статус возвращается в requested, серийник сбрасывается
		if err := uc.apptRepo.Reschedule(txCtx, appt.ID, req.NewStartTime, newEnd); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to reschedule appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reschedule appointment: %v", ErrInternal, err)
		}

		result = &Response{
			ID:        appt.ID,
			DoctorID:  appt.DoctorID,
			PatientID: appt.PatientID,
			StartTime: req.NewStartTime,
			EndTime:   newEnd,
			Status:    string(domain.StatusRequested),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d", result.ID)
	return result, nil
}
