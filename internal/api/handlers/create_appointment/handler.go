package create_appointment

import (
	"errors"
	"net/http"

	"github.com/eyamin444/RxMeet/internal/api/handlers"
	createAppointment "github.com/eyamin444/RxMeet/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат времени, ожидается YYYY-MM-DDTHH:MM:SS"
	msgDoctorNotFound     = "врач не найден"
	msgPatientNotFound    = "пациент не найден"
	msgOutsideSchedule    = "запрошенное время вне расписания врача"
	msgModeMismatch       = "формат приёма не совпадает с расписанием"
	msgSlotFull           = "выбранный слот заполнен"
	msgInvalidTimeRange   = "некорректный временной диапазон"
	msgTimeInPast         = "время начала приёма уже прошло"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotFull):
			h.logger.Warn("POST /appointments - Slot full: doctor_id=%d, patient_id=%d", req.DoctorID, req.PatientID)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.Is(err, createAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, createAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_id=%d", req.PatientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, createAppointment.ErrOutsideSchedule):
			h.logger.Warn("POST /appointments - Outside schedule: doctor_id=%d, start=%s", req.DoctorID, req.StartTime)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOutsideSchedule)

		case errors.Is(err, createAppointment.ErrModeMismatch):
			h.logger.Warn("POST /appointments - Mode mismatch: doctor_id=%d", req.DoctorID)
			handlers.RespondBadRequest(w, msgModeMismatch)

		case errors.Is(err, createAppointment.ErrInvalidTimeRange):
			h.logger.Warn("POST /appointments - Invalid time range: doctor_id=%d", req.DoctorID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createAppointment.ErrTimeInPast):
			h.logger.Warn("POST /appointments - Start time in the past: doctor_id=%d, start=%s", req.DoctorID, req.StartTime)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: doctor_id=%d, patient_id=%d, error=%v",
				req.DoctorID, req.PatientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, doctor_id=%d, patient_id=%d",
		result.ID, req.DoctorID, req.PatientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
