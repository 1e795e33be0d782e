package set_weekly_schedule

import (
	"context"

	"github.com/eyamin444/RxMeet/internal/service/rules/models"
)

type RulesService interface {
	SetWeeklySchedule(ctx context.Context, req *models.SetWeeklyScheduleRequest) (*models.WeeklyRuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
