package get_available_blocks

import (
	"github.com/eyamin444/RxMeet/internal/domain"
	getAvailableBlocks "github.com/eyamin444/RxMeet/internal/usecase/get_available_blocks"
)

// BlockResponse HTTP модель блока расписания
type BlockResponse struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Mode        string `json:"mode"`
	MaxPatients int    `json:"maxPatients"`
	Booked      int    `json:"booked"`
	SlotMinutes int    `json:"slotMinutes"`
}

// BlocksResponse HTTP модель ответа с блоками
type BlocksResponse struct {
	DoctorID int64           `json:"doctorId"`
	Date     string          `json:"date"`
	Blocks   []BlockResponse `json:"blocks"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableBlocks.Response) *BlocksResponse {
	blocks := make([]BlockResponse, 0, len(resp.Blocks))
	for _, block := range resp.Blocks {
		blocks = append(blocks, BlockResponse{
			StartTime:   block.StartTime.Format(domain.DateTimeFormat),
			EndTime:     block.EndTime.Format(domain.DateTimeFormat),
			Mode:        block.Mode,
			MaxPatients: block.MaxPatients,
			Booked:      block.Booked,
			SlotMinutes: block.SlotMinutes,
		})
	}

	return &BlocksResponse{
		DoctorID: resp.DoctorID,
		Date:     resp.Date,
		Blocks:   blocks,
	}
}
