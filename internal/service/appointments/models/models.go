package models

import (
	"fmt"
	"time"

	"github.com/eyamin444/RxMeet/internal/domain"
)

// Request модели

// GetPatientAppointmentsRequest запрос на историю приёмов пациента
type GetPatientAppointmentsRequest struct {
	PatientID int64   `json:"patientId"`
	Status    *string `json:"status,omitempty"`
}

// GetDoctorAppointmentsRequest запрос на приёмы врача с фильтрацией
type GetDoctorAppointmentsRequest struct {
	DoctorID        int64   `json:"doctorId"`
	StartDate       *string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate         *string `json:"endDate,omitempty"`   // YYYY-MM-DD
	Status          *string `json:"status,omitempty"`
	IncludeInactive bool    `json:"includeInactive,omitempty"`
}

// CancelAppointmentRequest запрос на отмену приёма
type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными приёма
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	DoctorID           int64      `json:"doctorId"`
	PatientID          int64      `json:"patientId"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	Status             string     `json:"status"`
	VisitMode          string     `json:"visitMode"`
	SerialNumber       *int       `json:"serialNumber,omitempty"`
	EstimatedVisitTime *time.Time `json:"estimatedVisitTime,omitempty"`
	PaymentStatus      string     `json:"paymentStatus"`
	Notes              string     `json:"notes,omitempty"`
	CancelReason       *string    `json:"cancelReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком приёмов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// ToDomainFilter конвертирует запрос в domain фильтр
func (r *GetDoctorAppointmentsRequest) ToDomainFilter() (domain.DoctorAppointmentsFilter, error) {
	filter := domain.DoctorAppointmentsFilter{
		DoctorID:        r.DoctorID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil {
		startDate, err := time.ParseInLocation(domain.DateFormat, *r.StartDate, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", *r.StartDate)
		}
		filter.StartDate = &startDate
	}

	if r.EndDate != nil {
		endDate, err := time.ParseInLocation(domain.DateFormat, *r.EndDate, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", *r.EndDate)
		}
		filter.EndDate = &endDate
	}

	if r.Status != nil {
		status := domain.AppointmentStatus(*r.Status)
		if !domain.ValidStatus(status) {
			return filter, fmt.Errorf("invalid status %q", *r.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainStatus конвертирует строку в статус приёма
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !domain.ValidStatus(s) {
		return "", fmt.Errorf("invalid status %q", status)
	}
	return s, nil
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	if appt == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                 appt.ID,
		DoctorID:           appt.DoctorID,
		PatientID:          appt.PatientID,
		StartTime:          appt.StartTime,
		EndTime:            appt.EndTime,
		Status:             string(appt.Status),
		VisitMode:          string(appt.VisitMode),
		SerialNumber:       appt.SerialNumber,
		EstimatedVisitTime: appt.EstimatedVisitTime,
		PaymentStatus:      string(appt.PaymentStatus),
		Notes:              appt.Notes,
		CancelReason:       appt.CancelReason,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	result := &AppointmentListResponse{Appointments: make([]AppointmentResponse, 0, len(appts))}
	for _, appt := range appts {
		result.Appointments = append(result.Appointments, *FromDomainAppointment(appt))
	}
	return result
}
