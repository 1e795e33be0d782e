package approve_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	approveAppointment "github.com/eyamin444/RxMeet/internal/usecase/approve_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID приёма"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "приём не найден"
	msgAlreadyProcessed     = "решение по приёму уже принято"
	msgInvalidDecision      = "решение должно быть approve или reject"
)

type Handler struct {
	useCase ApproveAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ApproveAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/decision - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req DecisionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approveAppointment.Request{
		AppointmentID: appointmentID,
		Decision:      req.Decision,
	})
	if err != nil {
		switch {
		case errors.Is(err, approveAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/decision - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, approveAppointment.ErrAlreadyProcessed):
			h.logger.Warn("PATCH /appointments/{id}/decision - Already processed: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyProcessed)

		case errors.Is(err, approveAppointment.ErrInvalidDecision):
			h.logger.Warn("PATCH /appointments/{id}/decision - Invalid decision: %s", req.Decision)
			handlers.RespondBadRequest(w, msgInvalidDecision)

		default:
			h.logger.Error("PATCH /appointments/{id}/decision - Failed to process decision: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/decision - Decision processed: appointment_id=%d, status=%s",
		appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
