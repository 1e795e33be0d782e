package create_appointment

import (
	"time"
)

// Request модель запроса на создание приёма
type Request struct {
	DoctorID  int64      // ID врача
	PatientID int64      // ID пациента
	StartTime time.Time  // Начало приёма
	EndTime   *time.Time // Конец приёма (опционально, по умолчанию час после начала)
	Mode      *string    // Формат приёма (опционально, должен совпадать с окном)
	Notes     string     // Жалобы и заметки пациента
}

// Response модель ответа с созданным приёмом
type Response struct {
	ID            int64     // ID созданного приёма
	DoctorID      int64     // ID врача
	PatientID     int64     // ID пациента
	StartTime     time.Time // Начало приёма
	EndTime       time.Time // Конец приёма
	Status        string    // Статус приёма
	VisitMode     string    // Формат приёма
	PaymentStatus string    // Статус оплаты
	Notes         string    // Заметки
	CreatedAt     time.Time // Время создания
}
