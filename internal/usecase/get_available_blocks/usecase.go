package get_available_blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// UseCase use case получения блоков расписания врача на дату
// Блок - это окно правила целиком; занятость считается по любому
// пересечению с окном, что ловит приёмы нестандартной длительности
type UseCase struct {
	apptRepo        AppointmentRepository
	scheduleService ScheduleProvider
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
		logger:          logger,
	}
}

// Execute выполняет use case получения блоков
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableBlocks: doctor=%d, date=%s, mode=%v", req.DoctorID, req.Date, req.Mode)

	// 1. Валидация входных данных
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, time.Local)
	if err != nil {
		uc.logger.Warn("GetAvailableBlocks: invalid date=%s", req.Date)
		return nil, fmt.Errorf("%w: expected YYYY-MM-DD", ErrInvalidDate)
	}

	var mode *domain.VisitMode
	if req.Mode != nil {
		m := domain.VisitMode(*req.Mode)
		if !domain.ValidVisitMode(m) {
			uc.logger.Warn("GetAvailableBlocks: invalid mode=%s", *req.Mode)
			return nil, ErrInvalidMode
		}
		mode = &m
	}

	// 2. Получаем окна расписания на дату
	windows, err := uc.scheduleService.WindowsForDate(ctx, req.DoctorID, date, mode)
	if err != nil {
		uc.logger.Error("GetAvailableBlocks: failed to get windows for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get schedule windows: %v", ErrInternal, err)
	}

	// 3. Для каждого окна считаем пересекающиеся приёмы;
	// исчерпанные окна в выдачу не попадают
	blocks := make([]Block, 0, len(windows))
	for _, window := range windows {
		booked, err := uc.apptRepo.CountOverlapping(ctx, req.DoctorID, window.Start, window.End)
		if err != nil {
			uc.logger.Error("GetAvailableBlocks: failed to count block occupancy: %v", err)
			return nil, fmt.Errorf("%w: failed to count block occupancy: %v", ErrInternal, err)
		}

		if booked >= window.MaxPatients {
			continue
		}

		blocks = append(blocks, Block{
			StartTime:   window.Start,
			EndTime:     window.End,
			Mode:        string(window.Mode),
			MaxPatients: window.MaxPatients,
			Booked:      booked,
			SlotMinutes: window.SlotMinutes(),
		})
	}

	uc.logger.Info("GetAvailableBlocks: generated %d blocks for doctor=%d, date=%s",
		len(blocks), req.DoctorID, req.Date)

	return &Response{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Blocks:   blocks,
	}, nil
}
