package get_available_blocks

import "errors"

var (
	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("get_available_blocks: invalid date")

	// ErrInvalidMode возвращается при недопустимом формате приёма
	ErrInvalidMode = errors.New("get_available_blocks: invalid visit mode")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_blocks: internal error")
)
