package create_weekly_rule

import (
	"context"

	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

type RulesService interface {
	CreateWeekly(ctx context.Context, req *models.CreateWeeklyRuleRequest) (*models.WeeklyRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
