package first_available_date

import (
	"context"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// UseCase use case поиска ближайшей даты со свободным слотом
// Сканирует дни вперёд от стартовой даты с жёстким горизонтом,
// чтобы врач без расписания не приводил к бесконечному циклу
type UseCase struct {
	apptRepo        AppointmentRepository
	scheduleService ScheduleProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	scheduleService ScheduleProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:        apptRepo,
		scheduleService: scheduleService,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case поиска ближайшей свободной даты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FirstAvailableDate: doctor=%d, from=%v, mode=%v", req.DoctorID, req.FromDate, req.Mode)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.FromDate != nil {
		parsed, err := time.ParseInLocation(domain.DateFormat, *req.FromDate, time.Local)
		if err != nil {
			uc.logger.Warn("FirstAvailableDate: invalid from date=%s", *req.FromDate)
			return nil, fmt.Errorf("%w: expected YYYY-MM-DD", ErrInvalidDate)
		}
		startDate = parsed
	}

	var mode *domain.VisitMode
	if req.Mode != nil {
		m := domain.VisitMode(*req.Mode)
		if !domain.ValidVisitMode(m) {
			uc.logger.Warn("FirstAvailableDate: invalid mode=%s", *req.Mode)
			return nil, ErrInvalidMode
		}
		mode = &m
	}

	// 2. Сканируем дни вперёд в пределах горизонта
	for offset := 0; offset < domain.MaxDateScanDays; offset++ {
		date := startDate.AddDate(0, 0, offset)

		available, err := uc.dateHasFreeBlock(ctx, req.DoctorID, date, mode)
		if err != nil {
			return nil, err
		}

		if available {
			uc.logger.Info("FirstAvailableDate: found date=%s for doctor=%d after %d days",
				date.Format(domain.DateFormat), req.DoctorID, offset)
			return &Response{
				DoctorID:    req.DoctorID,
				Date:        date.Format(domain.DateFormat),
				ScannedDays: offset + 1,
			}, nil
		}
	}

	uc.logger.Warn("FirstAvailableDate: no availability for doctor=%d within %d days",
		req.DoctorID, domain.MaxDateScanDays)
	return nil, ErrNoAvailability
}

// dateHasFreeBlock проверяет, остаётся ли на дату хотя бы один блок
// расписания со свободным местом. Занятость блока считается по
// пересечению, а не по точному совпадению границ: блок, целиком
// выбранный приёмами с нестандартными границами, считается занятым
func (uc *UseCase) dateHasFreeBlock(ctx context.Context, doctorID int64, date time.Time, mode *domain.VisitMode) (bool, error) {
	windows, err := uc.scheduleService.WindowsForDate(ctx, doctorID, date, mode)
	if err != nil {
		uc.logger.Error("FirstAvailableDate: failed to get windows for doctor=%d: %v", doctorID, err)
		return false, fmt.Errorf("%w: failed to get schedule windows: %v", ErrInternal, err)
	}

	for _, window := range windows {
		booked, err := uc.apptRepo.CountOverlapping(ctx, doctorID, window.Start, window.End)
		if err != nil {
			uc.logger.Error("FirstAvailableDate: failed to count block occupancy: %v", err)
			return false, fmt.Errorf("%w: failed to count block occupancy: %v", ErrInternal, err)
		}

		if booked < window.MaxPatients {
			return true, nil
		}
	}

	return false, nil
}
