package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы со справочником врачей и пациентов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDoctor получает врача из справочника
func (c *Client) GetDoctor(ctx context.Context, doctorID int64) (*Doctor, error) {
	url := fmt.Sprintf("%s/internal/doctors/%d", c.baseURL, doctorID)

	var doctor Doctor
	if err := c.getJSON(ctx, url, &doctor, ErrDoctorNotFound); err != nil {
		return nil, err
	}

	return &doctor, nil
}

// GetPatient получает пациента из справочника
func (c *Client) GetPatient(ctx context.Context, patientID int64) (*Patient, error) {
	url := fmt.Sprintf("%s/internal/patients/%d", c.baseURL, patientID)

	var patient Patient
	if err := c.getJSON(ctx, url, &patient, ErrPatientNotFound); err != nil {
		return nil, err
	}

	return &patient, nil
}

// GetDoctorWithGracefulDegradation получает врача с graceful degradation
// При недоступности справочника возвращает ErrServiceDegraded - вызывающая
// сторона решает сама, пропускать ли проверку существования
func (c *Client) GetDoctorWithGracefulDegradation(ctx context.Context, doctorID int64) (*Doctor, error) {
	c.log.Info("Fetching doctor id=%d from directory", doctorID)

	doctor, err := c.GetDoctor(ctx, doctorID)
	if err != nil {
		// Бизнес-ошибку пробрасываем как есть
		if err == ErrDoctorNotFound {
			c.log.Info("Doctor id=%d not found in directory", doctorID)
			return nil, err
		}

		c.log.Error("Directory unavailable, applying graceful degradation for doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: doctor_id=%d, error=%v", ErrServiceDegraded, doctorID, err)
	}

	return doctor, nil
}

// GetPatientWithGracefulDegradation получает пациента с graceful degradation
func (c *Client) GetPatientWithGracefulDegradation(ctx context.Context, patientID int64) (*Patient, error) {
	c.log.Info("Fetching patient id=%d from directory", patientID)

	patient, err := c.GetPatient(ctx, patientID)
	if err != nil {
		if err == ErrPatientNotFound {
			c.log.Info("Patient id=%d not found in directory", patientID)
			return nil, err
		}

		c.log.Error("Directory unavailable, applying graceful degradation for patient id=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: patient_id=%d, error=%v", ErrServiceDegraded, patientID, err)
	}

	return patient, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
