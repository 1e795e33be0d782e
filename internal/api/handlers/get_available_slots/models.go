package get_available_slots

import (
	"github.com/eyamin444/RxMeet/internal/domain"
	getAvailableSlots "github.com/eyamin444/RxMeet/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель почасового слота
type SlotResponse struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Mode        string `json:"mode"`
	MaxPatients int    `json:"maxPatients"`
	Booked      int    `json:"booked"`
}

// SlotsResponse HTTP модель ответа со слотами
type SlotsResponse struct {
	DoctorID int64          `json:"doctorId"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:   slot.StartTime.Format(domain.DateTimeFormat),
			EndTime:     slot.EndTime.Format(domain.DateTimeFormat),
			Mode:        slot.Mode,
			MaxPatients: slot.MaxPatients,
			Booked:      slot.Booked,
		})
	}

	return &SlotsResponse{
		DoctorID: resp.DoctorID,
		Date:     resp.Date,
		Slots:    slots,
	}
}
