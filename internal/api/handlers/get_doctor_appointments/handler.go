package get_doctor_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	"github.com/eyamin444/RxMeet/internal/service/appointments"
	"github.com/eyamin444/RxMeet/internal/service/appointments/models"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidFilter   = "некорректные параметры фильтрации"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/appointments?startDate=&endDate=&status=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	query := r.URL.Query()
	req := &models.GetDoctorAppointmentsRequest{
		DoctorID:        doctorID,
		IncludeInactive: query.Get("includeInactive") == "true",
	}
	if v := query.Get("startDate"); v != "" {
		req.StartDate = &v
	}
	if v := query.Get("endDate"); v != "" {
		req.EndDate = &v
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	result, err := h.service.GetDoctorAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/appointments - Invalid filter: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /doctors/{id}/appointments - Failed to get appointments: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/appointments - Retrieved %d appointments: doctor_id=%d",
		len(result.Appointments), doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
