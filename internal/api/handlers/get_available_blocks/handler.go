package get_available_blocks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	getAvailableBlocks "github.com/eyamin444/RxMeet/internal/usecase/get_available_blocks"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingDate     = "отсутствует параметр date"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidMode     = "некорректный формат приёма"
)

type Handler struct {
	useCase GetAvailableBlocksUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableBlocksUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/available-blocks?date=&mode=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/available-blocks - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	query := r.URL.Query()
	date := query.Get("date")
	if date == "" {
		h.logger.Warn("GET /doctors/{id}/available-blocks - Missing date: doctor_id=%d", doctorID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	req := &getAvailableBlocks.Request{
		DoctorID: doctorID,
		Date:     date,
	}
	if mode := query.Get("mode"); mode != "" {
		req.Mode = &mode
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableBlocks.ErrInvalidDate):
			h.logger.Warn("GET /doctors/{id}/available-blocks - Invalid date: doctor_id=%d, date=%s", doctorID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableBlocks.ErrInvalidMode):
			h.logger.Warn("GET /doctors/{id}/available-blocks - Invalid mode: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidMode)

		default:
			h.logger.Error("GET /doctors/{id}/available-blocks - Failed to get blocks: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/available-blocks - Retrieved %d blocks: doctor_id=%d, date=%s",
		len(result.Blocks), doctorID, date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
