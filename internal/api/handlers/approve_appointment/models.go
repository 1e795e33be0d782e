package approve_appointment

import (
	"github.com/eyamin444/RxMeet/internal/domain"
	approveAppointment "github.com/eyamin444/RxMeet/internal/usecase/approve_appointment"
)

// DecisionRequest HTTP request model
type DecisionRequest struct {
	Decision string `json:"decision"` // approve или reject
}

// DecisionResponse HTTP response model
type DecisionResponse struct {
	ID                 int64   `json:"id"`
	DoctorID           int64   `json:"doctorId"`
	PatientID          int64   `json:"patientId"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	Status             string  `json:"status"`
	SerialNumber       *int    `json:"serialNumber,omitempty"`
	EstimatedVisitTime *string `json:"estimatedVisitTime,omitempty"`
	PaymentStatus      string  `json:"paymentStatus"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *approveAppointment.Response) *DecisionResponse {
	var estimated *string
	if resp.EstimatedVisitTime != nil {
		formatted := resp.EstimatedVisitTime.Format(domain.DateTimeFormat)
		estimated = &formatted
	}

	return &DecisionResponse{
		ID:                 resp.ID,
		DoctorID:           resp.DoctorID,
		PatientID:          resp.PatientID,
		StartTime:          resp.StartTime.Format(domain.DateTimeFormat),
		EndTime:            resp.EndTime.Format(domain.DateTimeFormat),
		Status:             resp.Status,
		SerialNumber:       resp.SerialNumber,
		EstimatedVisitTime: estimated,
		PaymentStatus:      resp.PaymentStatus,
	}
}
