package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	dateRepo "github.com/eyamin444/RxMeet/internal/infra/storage/daterule"
	weeklyRepo "github.com/eyamin444/RxMeet/internal/infra/storage/weeklyrule"
)

// Service сервис разрешения окон расписания
// Отвечает на вопрос "каким правилом покрыт этот интервал" с приоритетом
// правил на конкретную дату над еженедельными
type Service struct {
	weeklyRules WeeklyRuleRepository
	dateRules   DateRuleRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(weeklyRules WeeklyRuleRepository, dateRules DateRuleRepository, logger Logger) *Service {
	return &Service{
		weeklyRules: weeklyRules,
		dateRules:   dateRules,
		logger:      logger,
	}
}

// Resolve находит окно, целиком содержащее интервал [start, end)
// Сначала ищется правило на дату, при его отсутствии - еженедельное правило
// на соответствующий день недели. Сравнение идёт по целым часам: минуты
// и секунды границ интервала отбрасываются
func (s *Service) Resolve(ctx context.Context, doctorID int64, start, end time.Time) (*domain.ScheduleWindow, error) {
	startHour, endHour, err := intervalHours(start, end)
	if err != nil {
		s.logger.Warn("Resolve: invalid interval for doctor=%d: %v", doctorID, err)
		return nil, err
	}

	date := midnightOf(start)

	dateRule, err := s.dateRules.FindContaining(ctx, doctorID, date, startHour, endHour)
	if err == nil {
		return windowFromDateRule(dateRule, date), nil
	}
	if !errors.Is(err, dateRepo.ErrRuleNotFound) {
		s.logger.Error("Resolve: date rule lookup failed for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: Resolve - date rule lookup: %v", ErrInternal, err)
	}

	weeklyRule, err := s.weeklyRules.FindContaining(ctx, doctorID, domain.DayOfWeekOf(start), startHour, endHour)
	if err == nil {
		return windowFromWeeklyRule(weeklyRule, date), nil
	}
	if errors.Is(err, weeklyRepo.ErrRuleNotFound) {
		s.logger.Warn("Resolve: no window covers [%02d:00, %02d:00) on %s for doctor=%d",
			startHour, endHour, date.Format(domain.DateFormat), doctorID)
		return nil, ErrNoWindow
	}

	s.logger.Error("Resolve: weekly rule lookup failed for doctor=%d: %v", doctorID, err)
	return nil, fmt.Errorf("%w: Resolve - weekly rule lookup: %v", ErrInternal, err)
}

// ResolveAt находит окно, содержащее момент времени t (точечное вхождение:
// start_hour <= час < end_hour). Приоритет правил тот же, что и в Resolve
func (s *Service) ResolveAt(ctx context.Context, doctorID int64, t time.Time) (*domain.ScheduleWindow, error) {
	date := midnightOf(t)
	hour := t.Hour()

	dateRule, err := s.dateRules.FindAtHour(ctx, doctorID, date, hour)
	if err == nil {
		return windowFromDateRule(dateRule, date), nil
	}
	if !errors.Is(err, dateRepo.ErrRuleNotFound) {
		s.logger.Error("ResolveAt: date rule lookup failed for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: ResolveAt - date rule lookup: %v", ErrInternal, err)
	}

	weeklyRule, err := s.weeklyRules.FindAtHour(ctx, doctorID, domain.DayOfWeekOf(t), hour)
	if err == nil {
		return windowFromWeeklyRule(weeklyRule, date), nil
	}
	if errors.Is(err, weeklyRepo.ErrRuleNotFound) {
		s.logger.Warn("ResolveAt: no window covers %02d:00 on %s for doctor=%d",
			hour, date.Format(domain.DateFormat), doctorID)
		return nil, ErrNoWindow
	}

	s.logger.Error("ResolveAt: weekly rule lookup failed for doctor=%d: %v", doctorID, err)
	return nil, fmt.Errorf("%w: ResolveAt - weekly rule lookup: %v", ErrInternal, err)
}

// WindowsForDate возвращает все рабочие окна врача на дату
// Если на дату есть хотя бы одно активное правило, еженедельные правила
// этого дня полностью вытесняются. Опционально фильтрует по формату приёма
func (s *Service) WindowsForDate(ctx context.Context, doctorID int64, date time.Time, mode *domain.VisitMode) ([]domain.ScheduleWindow, error) {
	date = midnightOf(date)

	dateRules, err := s.dateRules.ListActiveByDate(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("WindowsForDate: date rules lookup failed for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: WindowsForDate - date rules lookup: %v", ErrInternal, err)
	}

	windows := make([]domain.ScheduleWindow, 0)

	if len(dateRules) > 0 {
		for _, rule := range dateRules {
			if mode != nil && rule.Mode != *mode {
				continue
			}
			windows = append(windows, *windowFromDateRule(rule, date))
		}
		return windows, nil
	}

	weeklyRules, err := s.weeklyRules.ListActiveByDay(ctx, doctorID, domain.DayOfWeekOf(date))
	if err != nil {
		s.logger.Error("WindowsForDate: weekly rules lookup failed for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: WindowsForDate - weekly rules lookup: %v", ErrInternal, err)
	}

	for _, rule := range weeklyRules {
		if mode != nil && rule.Mode != *mode {
			continue
		}
		windows = append(windows, *windowFromWeeklyRule(rule, date))
	}

	return windows, nil
}

// intervalHours извлекает целочасовые границы интервала в пределах одного дня
// Конец в полночь следующего дня трактуется как 24-й час
func intervalHours(start, end time.Time) (int, int, error) {
	if !start.Before(end) {
		return 0, 0, fmt.Errorf("%w: interval start must precede end", ErrInvalidInput)
	}

	startDay := midnightOf(start)
	endDay := midnightOf(end)

	endHour := end.Hour()
	switch {
	case startDay.Equal(endDay):
		// обычный случай - интервал внутри одного дня
	case endDay.Equal(startDay.AddDate(0, 0, 1)) && endHour == 0 && end.Minute() == 0:
		endHour = domain.MaxHour
	default:
		return 0, 0, fmt.Errorf("%w: interval must not span multiple days", ErrInvalidInput)
	}

	return start.Hour(), endHour, nil
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func windowFromWeeklyRule(rule *domain.WeeklyRule, date time.Time) *domain.ScheduleWindow {
	return windowForHours(date, rule.StartHour, rule.EndHour, rule.MaxPatients, rule.Mode, rule.ID, false)
}

func windowFromDateRule(rule *domain.DateRule, date time.Time) *domain.ScheduleWindow {
	return windowForHours(date, rule.StartHour, rule.EndHour, rule.MaxPatients, rule.Mode, rule.ID, true)
}

func windowForHours(date time.Time, startHour, endHour, maxPatients int, mode domain.VisitMode, ruleID int64, fromDate bool) *domain.ScheduleWindow {
	return &domain.ScheduleWindow{
		Start:       date.Add(time.Duration(startHour) * time.Hour),
		End:         date.Add(time.Duration(endHour) * time.Hour),
		MaxPatients: maxPatients,
		Mode:        mode,
		RuleID:      ruleID,
		FromDate:    fromDate,
	}
}
