package get_patient_appointments

import (
	"context"

	"github.com/eyamin444/RxMeet/internal/service/appointments/models"
)

type AppointmentService interface {
	GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
