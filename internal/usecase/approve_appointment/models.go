package approve_appointment

import "time"

// Решения врача по заявке
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Request модель запроса на решение по заявке
type Request struct {
	AppointmentID int64  // ID приёма
	Decision      string // approve или reject
}

// Response модель ответа с обработанным приёмом
type Response struct {
	ID                 int64      // ID приёма
	DoctorID           int64      // ID врача
	PatientID          int64      // ID пациента
	StartTime          time.Time  // Начало приёма
	EndTime            time.Time  // Конец приёма
	Status             string     // Статус после решения
	SerialNumber       *int       // Порядковый номер в окне (только approve)
	EstimatedVisitTime *time.Time // Расчётное время визита (только approve)
	PaymentStatus      string     // Статус оплаты
}
