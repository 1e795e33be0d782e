package directory

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден в справочнике
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден в справочнике
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directory client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что справочник недоступен и проверку существования следует пропустить
	ErrServiceDegraded = errors.New("directory service unavailable: graceful degradation applied")
)
