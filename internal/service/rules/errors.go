package rules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило не найдено
	ErrRuleNotFound = errors.New("schedule rule not found")

	// ErrDoctorNotFound возвращается, когда врач не найден в справочнике
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrInvalidHours возвращается при некорректном диапазоне часов
	ErrInvalidHours = errors.New("invalid hour range")

	// ErrInvalidDayOfWeek возвращается при некорректном дне недели
	ErrInvalidDayOfWeek = errors.New("invalid day of week")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidCapacity возвращается при некорректной вместимости окна
	ErrInvalidCapacity = errors.New("invalid window capacity")

	// ErrInvalidMode возвращается при недопустимом формате приёма
	ErrInvalidMode = errors.New("invalid visit mode")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrForbidden возвращается, когда правило принадлежит другому врачу
	ErrForbidden = errors.New("rule belongs to another doctor")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules service: internal error")
)
