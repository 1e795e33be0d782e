package schedule

import "errors"

var (
	// ErrNoWindow возвращается, когда запрошенный интервал не покрыт
	// ни одним активным правилом расписания
	ErrNoWindow = errors.New("no schedule window covers the requested interval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
