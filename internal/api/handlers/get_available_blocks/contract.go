package get_available_blocks

import (
	"context"

	getAvailableBlocks "github.com/eyamin444/RxMeet/internal/usecase/get_available_blocks"
)

type GetAvailableBlocksUseCase interface {
	Execute(ctx context.Context, req *getAvailableBlocks.Request) (*getAvailableBlocks.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
