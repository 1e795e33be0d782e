package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	rescheduleAppointment "github.com/eyamin444/RxMeet/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID приёма"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат времени, ожидается YYYY-MM-DDTHH:MM:SS"
	msgNotFound             = "приём не найден"
	msgCannotReschedule     = "приём не может быть перенесён"
	msgOutsideSchedule      = "новое время вне расписания врача"
	msgSlotFull             = "новый слот заполнен"
	msgInvalidTimeRange     = "некорректный временной диапазон"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrCannotReschedule):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Cannot reschedule: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotReschedule)

		case errors.Is(err, rescheduleAppointment.ErrOutsideSchedule):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Outside schedule: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOutsideSchedule)

		case errors.Is(err, rescheduleAppointment.ErrSlotFull):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot full: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.Is(err, rescheduleAppointment.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid time range: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled successfully: appointment_id=%d",
		appointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
