package get_weekly_rules

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
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

// Handle GET /api/v1/doctors/{doctorId}/schedule/weekly
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/schedule/weekly - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	result, err := h.service.ListWeekly(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("GET /doctors/{id}/schedule/weekly - Failed to list rules: doctor_id=%d, error=%v",
			doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /doctors/{id}/schedule/weekly - Retrieved %d rules: doctor_id=%d", len(result.Rules), doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
