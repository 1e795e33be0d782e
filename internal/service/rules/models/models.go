package models

import (
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// Actor аутентифицированный автор запроса, проставленный шлюзом
// Правила доступны на запись только владельцу либо администратору
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// Request модели

// CreateWeeklyRuleRequest запрос на создание еженедельного правила
type CreateWeeklyRuleRequest struct {
	DoctorID    int64   `json:"doctorId"`
	DayOfWeek   int     `json:"dayOfWeek"` // 0 = понедельник ... 6 = воскресенье
	StartHour   int     `json:"startHour"`
	EndHour     int     `json:"endHour"`
	MaxPatients *int    `json:"maxPatients,omitempty"` // NULL = значение по умолчанию
	Mode        *string `json:"mode,omitempty"`        // NULL = offline
}

// CreateDateRuleRequest запрос на создание правила на конкретную дату
type CreateDateRuleRequest struct {
	DoctorID    int64   `json:"doctorId"`
	TargetDate  string  `json:"targetDate"` // YYYY-MM-DD
	StartHour   int     `json:"startHour"`
	EndHour     int     `json:"endHour"`
	MaxPatients *int    `json:"maxPatients,omitempty"`
	Mode        *string `json:"mode,omitempty"`
}

// UpdateRuleRequest запрос на обновление правила
// Все поля опциональны - обновляются только переданные значения
type UpdateRuleRequest struct {
	StartHour   *int    `json:"startHour,omitempty"`
	EndHour     *int    `json:"endHour,omitempty"`
	MaxPatients *int    `json:"maxPatients,omitempty"`
	Mode        *string `json:"mode,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// SetWeeklyScheduleRequest запрос на цельную замену еженедельного расписания
// Правила дней, упомянутых в списке, заменяются; остальные дни не трогаются
type SetWeeklyScheduleRequest struct {
	DoctorID int64                     `json:"doctorId"`
	Rules    []CreateWeeklyRuleRequest `json:"rules"`
}

// ListDateRulesRequest запрос на список правил на даты за период
type ListDateRulesRequest struct {
	DoctorID int64  `json:"doctorId"`
	FromDate string `json:"fromDate"` // YYYY-MM-DD
	ToDate   string `json:"toDate"`   // YYYY-MM-DD
}

// Response модели

// WeeklyRuleResponse ответ с данными еженедельного правила
type WeeklyRuleResponse struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctorId"`
	DayOfWeek   int       `json:"dayOfWeek"`
	StartHour   int       `json:"startHour"`
	EndHour     int       `json:"endHour"`
	MaxPatients int       `json:"maxPatients"`
	Mode        string    `json:"mode"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DateRuleResponse ответ с данными правила на дату
type DateRuleResponse struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctorId"`
	TargetDate  string    `json:"targetDate"`
	StartHour   int       `json:"startHour"`
	EndHour     int       `json:"endHour"`
	MaxPatients int       `json:"maxPatients"`
	Mode        string    `json:"mode"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WeeklyRuleListResponse ответ со списком еженедельных правил
type WeeklyRuleListResponse struct {
	Rules []WeeklyRuleResponse `json:"rules"`
}

// DateRuleListResponse ответ со списком правил на даты
type DateRuleListResponse struct {
	Rules []DateRuleResponse `json:"rules"`
}

// Методы конвертации

// ToDomainWeeklyRule конвертирует запрос в domain модель, подставляя значения
// по умолчанию для незаполненных полей
func (r *CreateWeeklyRuleRequest) ToDomainWeeklyRule() *domain.WeeklyRule {
	return &domain.WeeklyRule{
		DoctorID:    r.DoctorID,
		DayOfWeek:   r.DayOfWeek,
		StartHour:   r.StartHour,
		EndHour:     r.EndHour,
		MaxPatients: maxPatientsOrDefault(r.MaxPatients),
		Mode:        modeOrDefault(r.Mode),
		IsActive:    true,
	}
}

// ToDomainDateRule конвертирует запрос в domain модель
// Дата должна быть провалидирована сервисом до вызова
func (r *CreateDateRuleRequest) ToDomainDateRule(targetDate time.Time) *domain.DateRule {
	return &domain.DateRule{
		DoctorID:    r.DoctorID,
		TargetDate:  targetDate,
		StartHour:   r.StartHour,
		EndHour:     r.EndHour,
		MaxPatients: maxPatientsOrDefault(r.MaxPatients),
		Mode:        modeOrDefault(r.Mode),
		IsActive:    true,
	}
}

// FromDomainWeeklyRule конвертирует domain модель в DTO
func FromDomainWeeklyRule(rule *domain.WeeklyRule) *WeeklyRuleResponse {
	if rule == nil {
		return nil
	}

	return &WeeklyRuleResponse{
		ID:          rule.ID,
		DoctorID:    rule.DoctorID,
		DayOfWeek:   rule.DayOfWeek,
		StartHour:   rule.StartHour,
		EndHour:     rule.EndHour,
		MaxPatients: rule.MaxPatients,
		Mode:        string(rule.Mode),
		IsActive:    rule.IsActive,
		CreatedAt:   rule.CreatedAt,
	}
}

// FromDomainWeeklyRuleList конвертирует список domain моделей в DTO
func FromDomainWeeklyRuleList(rules []*domain.WeeklyRule) *WeeklyRuleListResponse {
	result := &WeeklyRuleListResponse{Rules: make([]WeeklyRuleResponse, 0, len(rules))}
	for _, rule := range rules {
		result.Rules = append(result.Rules, *FromDomainWeeklyRule(rule))
	}
	return result
}

// FromDomainDateRule конвертирует domain модель в DTO
func FromDomainDateRule(rule *domain.DateRule) *DateRuleResponse {
	if rule == nil {
		return nil
	}

	return &DateRuleResponse{
		ID:          rule.ID,
		DoctorID:    rule.DoctorID,
		TargetDate:  rule.TargetDate.Format(domain.DateFormat),
		StartHour:   rule.StartHour,
		EndHour:     rule.EndHour,
		MaxPatients: rule.MaxPatients,
		Mode:        string(rule.Mode),
		IsActive:    rule.IsActive,
		CreatedAt:   rule.CreatedAt,
	}
}

// FromDomainDateRuleList конвертирует список domain моделей в DTO
func FromDomainDateRuleList(rules []*domain.DateRule) *DateRuleListResponse {
	result := &DateRuleListResponse{Rules: make([]DateRuleResponse, 0, len(rules))}
	for _, rule := range rules {
		result.Rules = append(result.Rules, *FromDomainDateRule(rule))
	}
	return result
}

func maxPatientsOrDefault(v *int) int {
	if v == nil {
		return domain.DefaultMaxPatients
	}
	return *v
}

func modeOrDefault(v *string) domain.VisitMode {
	if v == nil {
		return domain.DefaultMode
	}
	return domain.VisitMode(*v)
}
