package create_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден в справочнике
	ErrDoctorNotFound = errors.New("create_appointment: doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден в справочнике
	ErrPatientNotFound = errors.New("create_appointment: patient not found")

	// ErrOutsideSchedule возвращается, когда запрошенный интервал не покрыт
	// ни одним окном расписания врача
	ErrOutsideSchedule = errors.New("create_appointment: requested time is outside doctor schedule")

	// ErrModeMismatch возвращается, когда запрошенный формат приёма
	// не совпадает с форматом окна расписания
	ErrModeMismatch = errors.New("create_appointment: visit mode does not match schedule window")

	// ErrSlotFull возвращается, когда вместимость слота исчерпана
	ErrSlotFull = errors.New("create_appointment: slot is fully booked")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("create_appointment: invalid time range")

	// ErrTimeInPast возвращается при попытке записи на прошедшее время
	ErrTimeInPast = errors.New("create_appointment: start time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
