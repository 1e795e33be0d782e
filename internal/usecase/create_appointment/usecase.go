package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	directoryClient "github.com/eyamin444/RxMeet/internal/integrations/directory"
	"github.com/eyamin444/RxMeet/internal/service/schedule"
)

// UseCase use case создания заявки на приём
type UseCase struct {
	apptRepo        AppointmentRepository
	scheduleService ScheduleResolver
	directoryClient DirectoryClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	// strictSerialization включает сериализуемую транзакцию для проверки
	// вместимости: гонка двух одновременных заявок на последнее место
	// исключается ценой возможных retry на стороне клиента
	strictSerialization bool
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	scheduleService ScheduleResolver,
	directoryClient DirectoryClient,
	txManager TransactionManager,
	strictSerialization bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:            apptRepo,
		scheduleService:     scheduleService,
		directoryClient:     directoryClient,
		txManager:           txManager,
		timeProvider:        &RealTimeProvider{},
		strictSerialization: strictSerialization,
		logger:              logger,
	}
}

// Execute выполняет use case создания заявки на приём
// Заявка создаётся в статусе requested и занимает место в слоте
// до решения врача
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: doctor=%d, patient=%d, start=%s",
		req.DoctorID, req.PatientID, req.StartTime.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	endTime := req.StartTime.Add(time.Duration(domain.SlotStepMinutes) * time.Minute)
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	if !req.StartTime.Before(endTime) {
		uc.logger.Warn("CreateAppointment: start=%s is not before end=%s",
			req.StartTime.Format(domain.DateTimeFormat), endTime.Format(domain.DateTimeFormat))
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateAppointment: start=%s is in the past",
			req.StartTime.Format(domain.DateTimeFormat))
		return nil, ErrTimeInPast
	}
	if req.Mode != nil && !domain.ValidVisitMode(domain.VisitMode(*req.Mode)) {
		uc.logger.Warn("CreateAppointment: invalid mode=%s", *req.Mode)
		return nil, fmt.Errorf("%w: mode must be online or offline", ErrInvalidInput)
	}

	// 2. Проверяем врача и пациента в справочнике
	// Недоступность справочника не блокирует запись
	if _, err := uc.directoryClient.GetDoctorWithGracefulDegradation(ctx, req.DoctorID); err != nil {
		if errors.Is(err, directoryClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAppointment: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Warn("CreateAppointment: directory degraded, skipping doctor check: %v", err)
	}
	if _, err := uc.directoryClient.GetPatientWithGracefulDegradation(ctx, req.PatientID); err != nil {
		if errors.Is(err, directoryClient.ErrPatientNotFound) {
			uc.logger.Warn("CreateAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Warn("CreateAppointment: directory degraded, skipping patient check: %v", err)
	}

	// 3. Находим окно расписания, покрывающее интервал
	window, err := uc.scheduleService.Resolve(ctx, req.DoctorID, req.StartTime, endTime)
	if err != nil {
		if errors.Is(err, schedule.ErrNoWindow) || errors.Is(err, schedule.ErrInvalidInput) {
			uc.logger.Warn("CreateAppointment: no window for doctor=%d at %s: %v",
				req.DoctorID, req.StartTime.Format(domain.DateTimeFormat), err)
			return nil, ErrOutsideSchedule
		}
		uc.logger.Error("CreateAppointment: window resolution failed: %v", err)
		return nil, fmt.Errorf("%w: window resolution failed: %v", ErrInternal, err)
	}

	// 4. Формат приёма берётся из окна; явно запрошенный должен совпадать
	if req.Mode != nil && domain.VisitMode(*req.Mode) != window.Mode {
		uc.logger.Warn("CreateAppointment: requested mode=%s does not match window mode=%s",
			*req.Mode, window.Mode)
		return nil, ErrModeMismatch
	}

	var result *domain.Appointment

	// 5. Проверяем вместимость и создаём заявку в транзакции
	run := uc.txManager.Do
	if uc.strictSerialization {
		run = uc.txManager.DoSerializable
	}

	err = run(ctx, func(txCtx context.Context) error {
		// 5.1. Считаем заявки на точно этот слот
		booked, err := uc.apptRepo.CountExact(txCtx, req.DoctorID, req.StartTime, endTime)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to count slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to count slot occupancy: %v", ErrInternal, err)
		}

		// 5.2. Сравниваем с вместимостью окна
		if booked >= window.MaxPatients {
			uc.logger.Warn("CreateAppointment: slot full, %d/%d spots taken", booked, window.MaxPatients)
			return ErrSlotFull
		}

		uc.logger.Info("CreateAppointment: slot available, %d/%d spots taken", booked, window.MaxPatients)

		// 5.3. Создаём заявку
		appt := &domain.Appointment{
			DoctorID:      req.DoctorID,
			PatientID:     req.PatientID,
			StartTime:     req.StartTime,
			EndTime:       endTime,
			Status:        domain.StatusRequested,
			VisitMode:     window.Mode,
			PaymentStatus: domain.PaymentPending,
			Notes:         req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:            result.ID,
		DoctorID:      result.DoctorID,
		PatientID:     result.PatientID,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		Status:        string(result.Status),
		VisitMode:     string(result.VisitMode),
		PaymentStatus: string(result.PaymentStatus),
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
	}, nil
}
