package create_appointment

import (
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	createAppointment "github.com/eyamin444/RxMeet/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID  int64   `json:"doctorId"`
	PatientID int64   `json:"patientId"`
	StartTime string  `json:"startTime"`         // "2025-10-15T10:00:00"
	EndTime   *string `json:"endTime,omitempty"` // по умолчанию час после начала
	Mode      *string `json:"mode,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID            int64  `json:"id"`
	DoctorID      int64  `json:"doctorId"`
	PatientID     int64  `json:"patientId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Status        string `json:"status"`
	VisitMode     string `json:"visitMode"`
	PaymentStatus string `json:"paymentStatus"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	startTime, err := time.ParseInLocation(domain.DateTimeFormat, r.StartTime, time.Local)
	if err != nil {
		return nil, err
	}

	var endTime *time.Time
	if r.EndTime != nil {
		parsed, err := time.ParseInLocation(domain.DateTimeFormat, *r.EndTime, time.Local)
		if err != nil {
			return nil, err
		}
		endTime = &parsed
	}

	return &createAppointment.Request{
		DoctorID:  r.DoctorID,
		PatientID: r.PatientID,
		StartTime: startTime,
		EndTime:   endTime,
		Mode:      r.Mode,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:            resp.ID,
		DoctorID:      resp.DoctorID,
		PatientID:     resp.PatientID,
		StartTime:     resp.StartTime.Format(domain.DateTimeFormat),
		EndTime:       resp.EndTime.Format(domain.DateTimeFormat),
		Status:        resp.Status,
		VisitMode:     resp.VisitMode,
		PaymentStatus: resp.PaymentStatus,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(domain.DateTimeFormat),
	}
}
