package get_date_rules

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	"github.com/eyamin444/RxMeet/internal/domain"
	"github.com/eyamin444/RxMeet/internal/service/rules"
	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingPeriod   = "отсутствуют параметры from и to"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/doctors/{doctorId}/schedule/dates?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/schedule/dates - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	// Без явного периода отдаём правила в пределах ±ScheduleListingDays от сегодня
	if from == "" && to == "" {
		now := time.Now()
		from = now.AddDate(0, 0, -domain.ScheduleListingDays).Format(domain.DateFormat)
		to = now.AddDate(0, 0, domain.ScheduleListingDays).Format(domain.DateFormat)
	}
	if from == "" || to == "" {
		h.logger.Warn("GET /doctors/{id}/schedule/dates - Missing period: doctor_id=%d", doctorID)
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	result, err := h.service.ListDate(r.Context(), &models.ListDateRulesRequest{
		DoctorID: doctorID,
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidDate):
			h.logger.Warn("GET /doctors/{id}/schedule/dates - Invalid date: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /doctors/{id}/schedule/dates - Failed to list rules: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/schedule/dates - Retrieved %d rules: doctor_id=%d", len(result.Rules), doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
