package approve_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда приём не найден
	ErrAppointmentNotFound = errors.New("approve_appointment: appointment not found")

	// ErrAlreadyProcessed возвращается, когда приём уже не в статусе requested
	ErrAlreadyProcessed = errors.New("approve_appointment: appointment is already processed")

	// ErrInvalidDecision возвращается при недопустимом решении врача
	ErrInvalidDecision = errors.New("approve_appointment: decision must be approve or reject")

	// ErrMissingStartTime возвращается, когда у приёма нет времени начала
	// и окно расписания не определимо
	ErrMissingStartTime = errors.New("approve_appointment: appointment has no start time")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_appointment: internal error")
)
