package approve_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	apptRepo "github.com/eyamin444/RxMeet/internal/infra/storage/appointment"
	"github.com/eyamin444/RxMeet/internal/service/schedule"
)

// UseCase use case решения врача по заявке
// При подтверждении назначает порядковый номер в окне расписания
// и расчётное время визита
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

// Execute выполняет use case решения по заявке
// Порядковый номер - это max(serial) + 1 среди приёмов окна на момент
// подтверждения, а не внешний счётчик: номер пересчитывается заново
// при каждом подтверждении
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveAppointment: appointment id=%d, decision=%s", req.AppointmentID, req.Decision)

	// 1. Валидация решения
	if req.Decision != DecisionApprove && req.Decision != DecisionReject {
		uc.logger.Warn("ApproveAppointment: invalid decision=%s", req.Decision)
		return nil, ErrInvalidDecision
	}

	var result *Response

	// 2. Все операции - в одной транзакции: строка приёма блокируется,
	// серийник и расчётное время назначаются атомарно
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем заявку с блокировкой
		appt, err := uc.apptRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ApproveAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("ApproveAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Решение принимается только по заявкам в статусе requested
		if appt.Status != domain.StatusRequested {
			uc.logger.Warn("ApproveAppointment: appointment id=%d already processed, status=%s",
				req.AppointmentID, appt.Status)
			return ErrAlreadyProcessed
		}

		// 2.3. Отклонение: серийник не назначается
		if req.Decision == DecisionReject {
			if err := uc.apptRepo.Reject(txCtx, appt.ID); err != nil {
				uc.logger.Error("ApproveAppointment: failed to reject appointment id=%d: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to reject appointment: %v", ErrInternal, err)
			}

			result = buildResponse(appt, domain.StatusRejected, nil, nil, appt.PaymentStatus)
			return nil
		}

		// 2.4. Находим окно расписания по точечному вхождению начала приёма
		window, err := uc.resolveWindow(txCtx, appt)
		if err != nil {
			return err
		}

		// 2.5. Порядковый номер - следующий за максимальным в окне
		maxSerial, err := uc.apptRepo.MaxSerialInRange(txCtx, appt.DoctorID, window.Start, window.End, appt.ID)
		if err != nil {
			uc.logger.Error("ApproveAppointment: failed to get max serial: %v", err)
			return fmt.Errorf("%w: failed to get max serial: %v", ErrInternal, err)
		}
		serial := maxSerial + 1

		// 2.6. Расчётное время визита: начало окна + (serial-1) слотов
		slotMinutes := window.SlotMinutes()
		estimated := window.Start.Add(time.Duration(serial-1) * time.Duration(slotMinutes) * time.Minute)

		uc.logger.Info("ApproveAppointment: appointment id=%d gets serial=%d, slot=%dm, estimated=%s",
			appt.ID, serial, slotMinutes, estimated.Format(domain.DateTimeFormat))

		if err := uc.apptRepo.Approve(txCtx, appt.ID, serial, &estimated); err != nil {
			uc.logger.Error("ApproveAppointment: failed to approve appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to approve appointment: %v", ErrInternal, err)
		}

		// 2.7. Если платёж за приём уже записан, отмечаем оплату
		paymentStatus := appt.PaymentStatus
		hasPayment, err := uc.apptRepo.HasPayment(txCtx, appt.ID)
		if err != nil {
			uc.logger.Error("ApproveAppointment: failed to check payment for appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to check payment: %v", ErrInternal, err)
		}
		if hasPayment {
			if err := uc.apptRepo.MarkPaymentPaid(txCtx, appt.ID); err != nil {
				uc.logger.Error("ApproveAppointment: failed to mark payment for appointment id=%d: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to mark payment: %v", ErrInternal, err)
			}
			paymentStatus = domain.PaymentPaid
		}

		result = buildResponse(appt, domain.StatusApproved, &serial, &estimated, paymentStatus)
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ApproveAppointment: appointment id=%d processed, status=%s", result.ID, result.Status)
	return result, nil
}

// resolveWindow находит окно расписания для подтверждаемого приёма
// Если начало приёма не покрыто ни одним правилом, приём считается
// собственным вырожденным окном на одного пациента - подтверждение
// не блокируется устаревшим расписанием, а очередь не смешивается
// с соседними окнами того же дня
func (uc *UseCase) resolveWindow(ctx context.Context, appt *domain.Appointment) (*domain.ScheduleWindow, error) {
	// Без времени начала окно не определимо ни по правилам, ни по самому приёму
	if appt.StartTime.IsZero() {
		uc.logger.Error("ApproveAppointment: appointment id=%d has no start time", appt.ID)
		return nil, ErrMissingStartTime
	}

	window, err := uc.scheduleService.ResolveAt(ctx, appt.DoctorID, appt.StartTime)
	if err == nil {
		return window, nil
	}

	if !errors.Is(err, schedule.ErrNoWindow) {
		uc.logger.Error("ApproveAppointment: window resolution failed for appointment id=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: window resolution failed: %v", ErrInternal, err)
	}

	uc.logger.Warn("ApproveAppointment: no window covers appointment id=%d start=%s, using the appointment as its own window",
		appt.ID, appt.StartTime.Format(domain.DateTimeFormat))

	end := appt.EndTime
	if !end.After(appt.StartTime) {
		end = appt.StartTime.Add(time.Hour)
	}

	return &domain.ScheduleWindow{
		Start:       appt.StartTime,
		End:         end,
		MaxPatients: 1,
		Mode:        appt.VisitMode,
	}, nil
}

func buildResponse(appt *domain.Appointment, status domain.AppointmentStatus, serial *int, estimated *time.Time, payment domain.PaymentStatus) *Response {
	return &Response{
		ID:                 appt.ID,
		DoctorID:           appt.DoctorID,
		PatientID:          appt.PatientID,
		StartTime:          appt.StartTime,
		EndTime:            appt.EndTime,
		Status:             string(status),
		SerialNumber:       serial,
		EstimatedVisitTime: estimated,
		PaymentStatus:      string(payment),
	}
}
