package create_date_rule

import (
	"context"

	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

type RulesService interface {
	CreateDate(ctx context.Context, req *models.CreateDateRuleRequest) (*models.DateRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
