package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	dateRepo "github.com/eyamin444/RxMeet/internal/infra/storage/daterule"
	weeklyRepo "github.com/eyamin444/RxMeet/internal/infra/storage/weeklyrule"
	directoryClient "github.com/eyamin444/RxMeet/internal/integrations/directory"
	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

// Service сервис для работы с правилами расписания врачей
type Service struct {
	weeklyRepo      WeeklyRuleRepository
	dateRepo        DateRuleRepository
	directoryClient DirectoryClient
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса правил расписания
func NewService(
	weeklyRepo WeeklyRuleRepository,
	dateRepo DateRuleRepository,
	directoryClient DirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		weeklyRepo:      weeklyRepo,
		dateRepo:        dateRepo,
		directoryClient: directoryClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// CreateWeekly создает еженедельное правило доступности врача
func (s *Service) CreateWeekly(ctx context.Context, req *models.CreateWeeklyRuleRequest) (*models.WeeklyRuleResponse, error) {
	s.logger.Info("CreateWeekly: creating rule for doctor=%d, day=%d, hours=[%d, %d)",
		req.DoctorID, req.DayOfWeek, req.StartHour, req.EndHour)

	// 1. Валидируем входные данные
	if err := s.validateRuleFields(req.StartHour, req.EndHour, req.MaxPatients, req.Mode); err != nil {
		s.logger.Warn("CreateWeekly: validation failed: %v", err)
		return nil, err
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		s.logger.Warn("CreateWeekly: invalid day of week=%d", req.DayOfWeek)
		return nil, fmt.Errorf("%w: day of week must be in [0, 6]", ErrInvalidDayOfWeek)
	}

	// 2. Проверяем существование врача в справочнике
	if err := s.checkDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	// 3. Создаем правило
	rule, err := s.weeklyRepo.Create(ctx, req.ToDomainWeeklyRule())
	if err != nil {
		s.logger.Error("CreateWeekly: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateWeekly - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateWeekly: successfully created rule id=%d", rule.ID)
	return models.FromDomainWeeklyRule(rule), nil
}

// CreateDate создает правило доступности на конкретную дату
// Такое правило перекрывает еженедельные правила своего дня
func (s *Service) CreateDate(ctx context.Context, req *models.CreateDateRuleRequest) (*models.DateRuleResponse, error) {
	s.logger.Info("CreateDate: creating rule for doctor=%d, date=%s, hours=[%d, %d)",
		req.DoctorID, req.TargetDate, req.StartHour, req.EndHour)

	if err := s.validateRuleFields(req.StartHour, req.EndHour, req.MaxPatients, req.Mode); err != nil {
		s.logger.Warn("CreateDate: validation failed: %v", err)
		return nil, err
	}

	targetDate, err := time.ParseInLocation(domain.DateFormat, req.TargetDate, time.Local)
	if err != nil {
		s.logger.Warn("CreateDate: invalid date=%s", req.TargetDate)
		return nil, fmt.Errorf("%w: expected YYYY-MM-DD", ErrInvalidDate)
	}

	if err := s.checkDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	rule, err := s.dateRepo.Create(ctx, req.ToDomainDateRule(targetDate))
	if err != nil {
		s.logger.Error("CreateDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateDate: successfully created rule id=%d", rule.ID)
	return models.FromDomainDateRule(rule), nil
}

// SetWeeklySchedule цельно заменяет еженедельное расписание врача
// Старые правила дней, упомянутых в запросе, удаляются и создаются заново
// одной транзакцией; правила остальных дней не трогаются
func (s *Service) SetWeeklySchedule(ctx context.Context, req *models.SetWeeklyScheduleRequest) (*models.WeeklyRuleListResponse, error) {
	s.logger.Info("SetWeeklySchedule: replacing schedule for doctor=%d, rules=%d", req.DoctorID, len(req.Rules))

	if len(req.Rules) == 0 {
		return nil, fmt.Errorf("%w: rules list must not be empty", ErrInvalidInput)
	}

	daysSeen := make(map[int]bool)
	days := make([]int, 0, len(req.Rules))
	for _, rule := range req.Rules {
		if err := s.validateRuleFields(rule.StartHour, rule.EndHour, rule.MaxPatients, rule.Mode); err != nil {
			s.logger.Warn("SetWeeklySchedule: validation failed for day=%d: %v", rule.DayOfWeek, err)
			return nil, err
		}
		if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
			s.logger.Warn("SetWeeklySchedule: invalid day of week=%d", rule.DayOfWeek)
			return nil, fmt.Errorf("%w: day of week must be in [0, 6]", ErrInvalidDayOfWeek)
		}
		if !daysSeen[rule.DayOfWeek] {
			daysSeen[rule.DayOfWeek] = true
			days = append(days, rule.DayOfWeek)
		}
	}

	if err := s.checkDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.weeklyRepo.DeleteByDoctorAndDays(ctx, req.DoctorID, days); err != nil {
			return fmt.Errorf("delete old rules: %w", err)
		}

		for i := range req.Rules {
			rule := req.Rules[i]
			rule.DoctorID = req.DoctorID
			if _, err := s.weeklyRepo.Create(ctx, rule.ToDomainWeeklyRule()); err != nil {
				return fmt.Errorf("create rule for day=%d: %w", rule.DayOfWeek, err)
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("SetWeeklySchedule: transaction failed for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: SetWeeklySchedule - transaction failed: %v", ErrInternal, err)
	}

	rulesList, err := s.weeklyRepo.ListByDoctor(ctx, req.DoctorID)
	if err != nil {
		s.logger.Error("SetWeeklySchedule: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetWeeklySchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetWeeklySchedule: successfully replaced schedule for doctor=%d", req.DoctorID)
	return models.FromDomainWeeklyRuleList(rulesList), nil
}

// ListWeekly получает все еженедельные правила врача
func (s *Service) ListWeekly(ctx context.Context, doctorID int64) (*models.WeeklyRuleListResponse, error) {
	rulesList, err := s.weeklyRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error("ListWeekly: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: ListWeekly - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeeklyRuleList(rulesList), nil
}

// ListDate получает правила врача на даты за период
func (s *Service) ListDate(ctx context.Context, req *models.ListDateRulesRequest) (*models.DateRuleListResponse, error) {
	from, err := time.ParseInLocation(domain.DateFormat, req.FromDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: expected YYYY-MM-DD", ErrInvalidDate)
	}
	to, err := time.ParseInLocation(domain.DateFormat, req.ToDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: expected YYYY-MM-DD", ErrInvalidDate)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes start", ErrInvalidDate)
	}

	rulesList, err := s.dateRepo.ListByDoctorBetween(ctx, req.DoctorID, from, to)
	if err != nil {
		s.logger.Error("ListDate: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: ListDate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDateRuleList(rulesList), nil
}

// UpdateWeekly обновляет еженедельное правило
// Обновляются только переданные поля
func (s *Service) UpdateWeekly(ctx context.Context, id int64, actor models.Actor, req *models.UpdateRuleRequest) (*models.WeeklyRuleResponse, error) {
	s.logger.Info("UpdateWeekly: updating rule id=%d", id)

	rule, err := s.weeklyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, weeklyRepo.ErrRuleNotFound) {
			s.logger.Warn("UpdateWeekly: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateWeekly: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateWeekly - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnership(actor, rule.DoctorID); err != nil {
		s.logger.Warn("UpdateWeekly: user id=%d is not the owner of rule id=%d", actor.UserID, id)
		return nil, err
	}

	// Быстрый путь: меняется только флаг активности, конфигурация правила не трогается
	if patchTouchesOnlyActive(req) {
		if err := s.weeklyRepo.SetActive(ctx, id, *req.IsActive); err != nil {
			s.logger.Error("UpdateWeekly: repository error for rule id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: UpdateWeekly - repository error: %v", ErrInternal, err)
		}

		rule.IsActive = *req.IsActive
		s.logger.Info("UpdateWeekly: successfully updated rule id=%d", id)
		return models.FromDomainWeeklyRule(rule), nil
	}

	applyRulePatch(req, &rule.StartHour, &rule.EndHour, &rule.MaxPatients, &rule.Mode, &rule.IsActive)

	if err := s.validateAppliedFields(rule.StartHour, rule.EndHour, rule.MaxPatients, rule.Mode); err != nil {
		s.logger.Warn("UpdateWeekly: validation failed for rule id=%d: %v", id, err)
		return nil, err
	}

	if err := s.weeklyRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, weeklyRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateWeekly: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateWeekly - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWeekly: successfully updated rule id=%d", id)
	return models.FromDomainWeeklyRule(rule), nil
}

// UpdateDate обновляет правило на дату
// Обновляются только переданные поля
func (s *Service) UpdateDate(ctx context.Context, id int64, actor models.Actor, req *models.UpdateRuleRequest) (*models.DateRuleResponse, error) {
	s.logger.Info("UpdateDate: updating rule id=%d", id)

	rule, err := s.dateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dateRepo.ErrRuleNotFound) {
			s.logger.Warn("UpdateDate: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateDate: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateDate - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnership(actor, rule.DoctorID); err != nil {
		s.logger.Warn("UpdateDate: user id=%d is not the owner of rule id=%d", actor.UserID, id)
		return nil, err
	}

	// Быстрый путь: меняется только флаг активности, конфигурация правила не трогается
	if patchTouchesOnlyActive(req) {
		if err := s.dateRepo.SetActive(ctx, id, *req.IsActive); err != nil {
			s.logger.Error("UpdateDate: repository error for rule id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: UpdateDate - repository error: %v", ErrInternal, err)
		}

		rule.IsActive = *req.IsActive
		s.logger.Info("UpdateDate: successfully updated rule id=%d", id)
		return models.FromDomainDateRule(rule), nil
	}

	applyRulePatch(req, &rule.StartHour, &rule.EndHour, &rule.MaxPatients, &rule.Mode, &rule.IsActive)

	if err := s.validateAppliedFields(rule.StartHour, rule.EndHour, rule.MaxPatients, rule.Mode); err != nil {
		s.logger.Warn("UpdateDate: validation failed for rule id=%d: %v", id, err)
		return nil, err
	}

	if err := s.dateRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, dateRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateDate: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateDate: successfully updated rule id=%d", id)
	return models.FromDomainDateRule(rule), nil
}

// DeleteWeekly удаляет еженедельное правило
func (s *Service) DeleteWeekly(ctx context.Context, id int64, actor models.Actor) error {
	s.logger.Info("DeleteWeekly: deleting rule id=%d", id)

	rule, err := s.weeklyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, weeklyRepo.ErrRuleNotFound) {
			s.logger.Warn("DeleteWeekly: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("DeleteWeekly: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteWeekly - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnership(actor, rule.DoctorID); err != nil {
		s.logger.Warn("DeleteWeekly: user id=%d is not the owner of rule id=%d", actor.UserID, id)
		return err
	}

	if err := s.weeklyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, weeklyRepo.ErrRuleNotFound) {
			s.logger.Warn("DeleteWeekly: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("DeleteWeekly: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteWeekly - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteWeekly: successfully deleted rule id=%d", id)
	return nil
}

// DeleteDate удаляет правило на дату
func (s *Service) DeleteDate(ctx context.Context, id int64, actor models.Actor) error {
	s.logger.Info("DeleteDate: deleting rule id=%d", id)

	rule, err := s.dateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dateRepo.ErrRuleNotFound) {
			s.logger.Warn("DeleteDate: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("DeleteDate: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteDate - repository error: %v", ErrInternal, err)
	}

	if err := s.checkOwnership(actor, rule.DoctorID); err != nil {
		s.logger.Warn("DeleteDate: user id=%d is not the owner of rule id=%d", actor.UserID, id)
		return err
	}

	if err := s.dateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, dateRepo.ErrRuleNotFound) {
			s.logger.Warn("DeleteDate: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("DeleteDate: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteDate: successfully deleted rule id=%d", id)
	return nil
}

// Вспомогательные методы

// validateRuleFields проверяет поля запроса на создание правила
func (s *Service) validateRuleFields(startHour, endHour int, maxPatients *int, mode *string) error {
	capacity := domain.DefaultMaxPatients
	if maxPatients != nil {
		capacity = *maxPatients
	}
	appliedMode := domain.DefaultMode
	if mode != nil {
		appliedMode = domain.VisitMode(*mode)
	}

	return s.validateAppliedFields(startHour, endHour, capacity, appliedMode)
}

// validateAppliedFields проверяет итоговые значения полей правила
func (s *Service) validateAppliedFields(startHour, endHour, maxPatients int, mode domain.VisitMode) error {
	if startHour < domain.MinHour || endHour > domain.MaxHour || startHour >= endHour {
		return fmt.Errorf("%w: hours must satisfy 0 <= start < end <= 24", ErrInvalidHours)
	}
	if maxPatients < 1 {
		return fmt.Errorf("%w: max patients must be at least 1", ErrInvalidCapacity)
	}
	if !domain.ValidVisitMode(mode) {
		return fmt.Errorf("%w: mode must be online or offline", ErrInvalidMode)
	}
	return nil
}

// checkDoctor проверяет существование врача в справочнике
// Недоступность справочника не блокирует операцию
func (s *Service) checkDoctor(ctx context.Context, doctorID int64) error {
	_, err := s.directoryClient.GetDoctor(ctx, doctorID)
	if err == nil {
		return nil
	}
	if errors.Is(err, directoryClient.ErrDoctorNotFound) {
		s.logger.Warn("checkDoctor: doctor id=%d not found", doctorID)
		return ErrDoctorNotFound
	}

	s.logger.Warn("checkDoctor: directory lookup failed for doctor id=%d, proceeding: %v", doctorID, err)
	return nil
}

// checkOwnership допускает к записи только владельца правила и администратора
func (s *Service) checkOwnership(actor models.Actor, ownerID int64) error {
	if actor.IsAdmin || actor.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}

// patchTouchesOnlyActive сообщает, что запрос меняет только флаг активности
func patchTouchesOnlyActive(req *models.UpdateRuleRequest) bool {
	return req.IsActive != nil &&
		req.StartHour == nil && req.EndHour == nil && req.MaxPatients == nil && req.Mode == nil
}

// applyRulePatch накладывает частичное обновление на поля правила
func applyRulePatch(req *models.UpdateRuleRequest, startHour, endHour, maxPatients *int, mode *domain.VisitMode, isActive *bool) {
	if req.StartHour != nil {
		*startHour = *req.StartHour
	}
	if req.EndHour != nil {
		*endHour = *req.EndHour
	}
	if req.MaxPatients != nil {
		*maxPatients = *req.MaxPatients
	}
	if req.Mode != nil {
		*mode = domain.VisitMode(*req.Mode)
	}
	if req.IsActive != nil {
		*isActive = *req.IsActive
	}
}
