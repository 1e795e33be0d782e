package reschedule_appointment

import (
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
	rescheduleAppointment "github.com/eyamin444/RxMeet/internal/usecase/reschedule_appointment"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	NewStartTime string  `json:"newStartTime"`         // "2025-10-15T10:00:00"
	NewEndTime   *string `json:"newEndTime,omitempty"` // по умолчанию час после начала
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctorId"`
	PatientID int64  `json:"patientId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	newStart, err := time.ParseInLocation(domain.DateTimeFormat, r.NewStartTime, time.Local)
	if err != nil {
		return nil, err
	}

	var newEnd *time.Time
	if r.NewEndTime != nil {
		parsed, err := time.ParseInLocation(domain.DateTimeFormat, *r.NewEndTime, time.Local)
		if err != nil {
			return nil, err
		}
		newEnd = &parsed
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		NewStartTime:  newStart,
		NewEndTime:    newEnd,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:        resp.ID,
		DoctorID:  resp.DoctorID,
		PatientID: resp.PatientID,
		StartTime: resp.StartTime.Format(domain.DateTimeFormat),
		EndTime:   resp.EndTime.Format(domain.DateTimeFormat),
		Status:    resp.Status,
	}
}
