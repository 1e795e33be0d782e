package set_weekly_schedule

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
	msgInvalidRules       = "некорректные правила расписания"
	msgEmptyRules         = "список правил не может быть пустым"
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

// Handle PUT /api/v1/doctors/{doctorId}/schedule/weekly
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /doctors/{id}/schedule/weekly - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var req models.SetWeeklyScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctors/{id}/schedule/weekly - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.DoctorID = doctorID

	result, err := h.service.SetWeeklySchedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrDoctorNotFound):
			h.logger.Warn("PUT /doctors/{id}/schedule/weekly - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("PUT /doctors/{id}/schedule/weekly - Empty rules: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgEmptyRules)

		case errors.Is(err, rules.ErrInvalidHours),
			errors.Is(err, rules.ErrInvalidDayOfWeek),
			errors.Is(err, rules.ErrInvalidCapacity),
			errors.Is(err, rules.ErrInvalidMode):
			h.logger.Warn("PUT /doctors/{id}/schedule/weekly - Invalid rules: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		default:
			h.logger.Error("PUT /doctors/{id}/schedule/weekly - Failed to set schedule: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /doctors/{id}/schedule/weekly - Schedule replaced successfully: doctor_id=%d, rules=%d",
		doctorID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
