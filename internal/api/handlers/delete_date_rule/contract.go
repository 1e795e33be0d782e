package delete_date_rule

import (
	"context"

	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

type RulesService interface {
	DeleteDate(ctx context.Context, id int64, actor models.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
