package first_available_date

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	firstAvailableDate "github.com/eyamin444/RxMeet/internal/usecase/first_available_date"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidMode     = "некорректный формат приёма"
	msgNoAvailability  = "свободных слотов в пределах горизонта поиска нет"
)

type Handler struct {
	useCase FirstAvailableDateUseCase
	logger  Logger
}

func NewHandler(useCase FirstAvailableDateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/first-available-date?from=&mode=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/first-available-date - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	query := r.URL.Query()
	req := &firstAvailableDate.Request{DoctorID: doctorID}
	if from := query.Get("from"); from != "" {
		req.FromDate = &from
	}
	if mode := query.Get("mode"); mode != "" {
		req.Mode = &mode
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, firstAvailableDate.ErrInvalidDate):
			h.logger.Warn("GET /doctors/{id}/first-available-date - Invalid date: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, firstAvailableDate.ErrInvalidMode):
			h.logger.Warn("GET /doctors/{id}/first-available-date - Invalid mode: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidMode)

		case errors.Is(err, firstAvailableDate.ErrNoAvailability):
			h.logger.Warn("GET /doctors/{id}/first-available-date - No availability: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgNoAvailability)

		default:
			h.logger.Error("GET /doctors/{id}/first-available-date - Failed to find date: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/first-available-date - Found date=%s: doctor_id=%d", result.Date, doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
