package first_available_date

import (
	"context"

	firstAvailableDate "github.com/eyamin444/RxMeet/internal/usecase/first_available_date"
)

type FirstAvailableDateUseCase interface {
	Execute(ctx context.Context, req *firstAvailableDate.Request) (*firstAvailableDate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
