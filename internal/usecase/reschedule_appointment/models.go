package reschedule_appointment

import "time"

// Request модель запроса на перенос приёма
type Request struct {
	AppointmentID int64      // ID приёма
	NewStartTime  time.Time  // Новое начало приёма
	NewEndTime    *time.Time // Новый конец (опционально, по умолчанию час после начала)
}

// Response модель ответа с перенесённым приёмом
type Response struct {
	ID        int64     // ID приёма
	DoctorID  int64     // ID врача
	PatientID int64     // ID пациента
	StartTime time.Time // Новое начало приёма
	EndTime   time.Time // Новый конец приёма
	Status    string    // Статус после переноса (requested)
}
