package update_weekly_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	"github.com/eyamin444/RxMeet/internal/api/middleware"
	"github.com/eyamin444/RxMeet/internal/service/rules"
	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

const (
	msgInvalidRuleID      = "некорректный ID правила"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "правило не найдено"
	msgInvalidFields      = "некорректные поля правила"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgForbidden          = "правило принадлежит другому врачу"
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

// Handle PATCH /api/v1/schedule/weekly-rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ruleID, err := strconv.ParseInt(vars["ruleId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /schedule/weekly-rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /schedule/weekly-rules/{id} - Missing user identity: rule_id=%d", ruleID)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())
	actor := models.Actor{UserID: userID, IsAdmin: role == middleware.RoleAdmin}

	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /schedule/weekly-rules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateWeekly(r.Context(), ruleID, actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrRuleNotFound):
			h.logger.Warn("PATCH /schedule/weekly-rules/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rules.ErrForbidden):
			h.logger.Warn("PATCH /schedule/weekly-rules/{id} - Forbidden: rule_id=%d, user_id=%d", ruleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rules.ErrInvalidHours),
			errors.Is(err, rules.ErrInvalidCapacity),
			errors.Is(err, rules.ErrInvalidMode):
			h.logger.Warn("PATCH /schedule/weekly-rules/{id} - Invalid fields: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondBadRequest(w, msgInvalidFields)

		default:
			h.logger.Error("PATCH /schedule/weekly-rules/{id} - Failed to update rule: rule_id=%d, error=%v",
				ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /schedule/weekly-rules/{id} - Rule updated successfully: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
