package first_available_date

import "errors"

var (
	// ErrInvalidDate возвращается при некорректной дате начала поиска
	ErrInvalidDate = errors.New("first_available_date: invalid date")

	// ErrInvalidMode возвращается при недопустимом формате приёма
	ErrInvalidMode = errors.New("first_available_date: invalid visit mode")

	// ErrNoAvailability возвращается, когда в пределах горизонта поиска
	// не нашлось ни одного свободного слота
	ErrNoAvailability = errors.New("first_available_date: no availability within scan horizon")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("first_available_date: internal error")
)
