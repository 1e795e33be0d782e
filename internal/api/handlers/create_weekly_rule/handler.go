package create_weekly_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	"github.com/eyamin444/RxMeet/internal/service/rules"
	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgDoctorNotFound     = "врач не найден"
	msgInvalidHours       = "часы должны удовлетворять 0 <= start < end <= 24"
	msgInvalidDayOfWeek   = "день недели должен быть от 0 (понедельник) до 6 (воскресенье)"
	msgInvalidCapacity    = "вместимость окна должна быть не меньше 1"
	msgInvalidMode        = "формат приёма должен быть online или offline"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/doctors/{doctorId}/schedule/weekly
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /doctors/{id}/schedule/weekly - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var req models.CreateWeeklyRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /doctors/{id}/schedule/weekly - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.DoctorID = doctorID

	result, err := h.service.CreateWeekly(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrDoctorNotFound):
			h.logger.Warn("POST /doctors/{id}/schedule/weekly - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, rules.ErrInvalidHours):
			h.logger.Warn("POST /doctors/{id}/schedule/weekly - Invalid hours: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, rules.ErrInvalidDayOfWeek):
			h.logger.Warn("POST /doctors/{id}/schedule/weekly - Invalid day of week: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidDayOfWeek)

		case errors.Is(err, rules.ErrInvalidCapacity):
			h.logger.Warn("POST /doctors/{id}/schedule/weekly - Invalid capacity: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidCapacity)

		case errors.Is(err, rules.ErrInvalidMode):
			h.logger.Warn("POST /doctors/{id}/schedule/weekly - Invalid mode: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidMode)

		default:
			h.logger.Error("POST /doctors/{id}/schedule/weekly - Failed to create rule: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /doctors/{id}/schedule/weekly - Rule created successfully: rule_id=%d, doctor_id=%d",
		result.ID, doctorID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
