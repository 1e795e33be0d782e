package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда приём не найден
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrCannotReschedule возвращается, когда приём в терминальном статусе
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrOutsideSchedule возвращается, когда новое время не покрыто расписанием
	ErrOutsideSchedule = errors.New("reschedule_appointment: new time is outside doctor schedule")

	// ErrSlotFull возвращается, когда вместимость нового слота исчерпана
	ErrSlotFull = errors.New("reschedule_appointment: new slot is fully booked")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("reschedule_appointment: invalid time range")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
