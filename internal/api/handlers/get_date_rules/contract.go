package get_date_rules

import (
	"context"

	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

type RulesService interface {
	ListDate(ctx context.Context, req *models.ListDateRulesRequest) (*models.DateRuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
