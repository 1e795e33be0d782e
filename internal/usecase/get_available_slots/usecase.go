package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// UseCase use case получения почасовых слотов врача на дату
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

// Execute выполняет use case получения слотов
// Каждое окно расписания нарезается на часовые слоты; занятость слота -
// количество активных приёмов с точно совпадающими границами
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s, mode=%v", req.DoctorID, req.Date, req.Mode)

	// 1. Валидация входных данных
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, time.Local)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date=%s", req.Date)
		return nil, fmt.Errorf("%w: expected YYYY-MM-DD", ErrInvalidDate)
	}

	var mode *domain.VisitMode
	if req.Mode != nil {
		m := domain.VisitMode(*req.Mode)
		if !domain.ValidVisitMode(m) {
			uc.logger.Warn("GetAvailableSlots: invalid mode=%s", *req.Mode)
			return nil, ErrInvalidMode
		}
		mode = &m
	}

	// 2. Получаем окна расписания на дату
	windows, err := uc.scheduleService.WindowsForDate(ctx, req.DoctorID, date, mode)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get windows for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get schedule windows: %v", ErrInternal, err)
	}

	// 3. Нарезаем окна на часовые слоты и считаем занятость;
	// заполненные слоты в выдачу не попадают
	slots := make([]Slot, 0)
	for _, window := range windows {
		for _, bounds := range hourlySlots(window) {
			booked, err := uc.apptRepo.CountExact(ctx, req.DoctorID, bounds.start, bounds.end)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: failed to count slot occupancy: %v", err)
				return nil, fmt.Errorf("%w: failed to count slot occupancy: %v", ErrInternal, err)
			}

			if booked >= window.MaxPatients {
				continue
			}

			slots = append(slots, Slot{
				StartTime:   bounds.start,
				EndTime:     bounds.end,
				Mode:        string(window.Mode),
				MaxPatients: window.MaxPatients,
				Booked:      booked,
			})
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for doctor=%d, date=%s",
		len(slots), req.DoctorID, req.Date)

	return &Response{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Slots:    slots,
	}, nil
}

type slotBounds struct {
	start time.Time
	end   time.Time
}

// hourlySlots нарезает окно на часовые слоты
// Часы окна целые, поэтому остатка короче часа не бывает
func hourlySlots(window domain.ScheduleWindow) []slotBounds {
	step := time.Duration(domain.SlotStepMinutes) * time.Minute

	bounds := make([]slotBounds, 0)
	for start := window.Start; start.Before(window.End); start = start.Add(step) {
		end := start.Add(step)
		if end.After(window.End) {
			end = window.End
		}
		bounds = append(bounds, slotBounds{start: start, end: end})
	}

	return bounds
}
