package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/eyamin444/RxMeet/internal/domain"
	apptRepo "github.com/eyamin444/RxMeet/internal/infra/storage/appointment"
	"github.com/eyamin444/RxMeet/internal/service/appointments/models"
)

// Service сервис для чтения и отмены приёмов
// Создание, подтверждение и перенос идут через отдельные usecase-ы
type Service struct {
	apptRepo AppointmentRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса приёмов
func NewService(apptRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		apptRepo: apptRepo,
		logger:   logger,
	}
}

// GetByID получает приём по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetPatientAppointments получает историю приёмов пациента
// Опционально фильтрует по статусу
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%d, status=%v", req.PatientID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		converted, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientAppointments: invalid status=%s for patient=%d", *req.Status, req.PatientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &converted
	}

	appts, err := s.apptRepo.ListByPatient(ctx, req.PatientID, status)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: fetched %d appointments for patient=%d", len(appts), req.PatientID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetDoctorAppointments получает приёмы врача с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных приёмов
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: fetching appointments for doctor=%d", req.DoctorID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetDoctorAppointments: invalid filter for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.apptRepo.ListByDoctorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: fetched %d appointments for doctor=%d", len(appts), req.DoctorID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет приём с указанием причины
// Отменить можно только приём в статусе requested или approved
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.apptRepo.Cancel(ctx, id, req.Reason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}
