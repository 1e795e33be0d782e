package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusRequested AppointmentStatus = "requested"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
)

// PaymentStatus represents the payment state of an appointment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Appointment represents a visit request in the system
type Appointment struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	StartTime time.Time // naive local datetime
	EndTime   time.Time
	Status    AppointmentStatus
	VisitMode VisitMode

	// Assigned only at approval
	SerialNumber       *int
	EstimatedVisitTime *time.Time

	PaymentStatus PaymentStatus
	Notes         string
	CancelReason  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies capacity
func (a *Appointment) IsActive() bool {
	return a.Status == StatusRequested || a.Status == StatusApproved
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusRequested || a.Status == StatusApproved
}

// CanBeRescheduled returns true if the appointment can be moved to a new slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusRequested || a.Status == StatusApproved
}

// HasSerial returns true if a queue position has been assigned
func (a *Appointment) HasSerial() bool {
	return a.SerialNumber != nil
}

// DoctorAppointmentsFilter фильтр для получения приёмов врача
type DoctorAppointmentsFilter struct {
	DoctorID        int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отклонённые и отменённые приёмы
}
