package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyamin444/RxMeet/internal/domain"
	dateStorage "github.com/eyamin444/RxMeet/internal/infra/storage/daterule"
	weeklyStorage "github.com/eyamin444/RxMeet/internal/infra/storage/weeklyrule"
	directoryClient "github.com/eyamin444/RxMeet/internal/integrations/directory"
	"github.com/eyamin444/RxMeet/internal/service/rules/models"
	"github.com/eyamin444/RxMeet/pkg/ptr"
)

func weeklyRepoNotFound() error { return weeklyStorage.ErrRuleNotFound }

func dateRepoNotFound() error { return dateStorage.ErrRuleNotFound }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeWeeklyRepo struct {
	rules  map[int64]*domain.WeeklyRule
	nextID int64
}

func newFakeWeeklyRepo() *fakeWeeklyRepo {
	return &fakeWeeklyRepo{rules: make(map[int64]*domain.WeeklyRule)}
}

func (f *fakeWeeklyRepo) Create(_ context.Context, rule *domain.WeeklyRule) (*domain.WeeklyRule, error) {
	f.nextID++
	created := *rule
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.rules[created.ID] = &created
	return &created, nil
}

func (f *fakeWeeklyRepo) GetByID(_ context.Context, id int64) (*domain.WeeklyRule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return nil, weeklyRepoNotFound()
	}
	copied := *rule
	return &copied, nil
}

func (f *fakeWeeklyRepo) ListByDoctor(_ context.Context, doctorID int64) ([]*domain.WeeklyRule, error) {
	var out []*domain.WeeklyRule
	for id := int64(1); id <= f.nextID; id++ {
		if rule, ok := f.rules[id]; ok && rule.DoctorID == doctorID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *fakeWeeklyRepo) Update(_ context.Context, rule *domain.WeeklyRule) error {
	if _, ok := f.rules[rule.ID]; !ok {
		return weeklyRepoNotFound()
	}
	copied := *rule
	f.rules[rule.ID] = &copied
	return nil
}

func (f *fakeWeeklyRepo) SetActive(_ context.Context, id int64, active bool) error {
	rule, ok := f.rules[id]
	if !ok {
		return weeklyRepoNotFound()
	}
	rule.IsActive = active
	return nil
}

func (f *fakeWeeklyRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rules[id]; !ok {
		return weeklyRepoNotFound()
	}
	delete(f.rules, id)
	return nil
}

func (f *fakeWeeklyRepo) DeleteByDoctorAndDays(_ context.Context, doctorID int64, days []int) error {
	daySet := make(map[int]bool, len(days))
	for _, d := range days {
		daySet[d] = true
	}
	for id, rule := range f.rules {
		if rule.DoctorID == doctorID && daySet[rule.DayOfWeek] {
			delete(f.rules, id)
		}
	}
	return nil
}

type fakeDateRepo struct {
	rules  map[int64]*domain.DateRule
	nextID int64
}

func newFakeDateRepo() *fakeDateRepo {
	return &fakeDateRepo{rules: make(map[int64]*domain.DateRule)}
}

func (f *fakeDateRepo) Create(_ context.Context, rule *domain.DateRule) (*domain.DateRule, error) {
	f.nextID++
	created := *rule
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.rules[created.ID] = &created
	return &created, nil
}

func (f *fakeDateRepo) GetByID(_ context.Context, id int64) (*domain.DateRule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return nil, dateRepoNotFound()
	}
	copied := *rule
	return &copied, nil
}

func (f *fakeDateRepo) ListByDoctorBetween(_ context.Context, doctorID int64, from, to time.Time) ([]*domain.DateRule, error) {
	var out []*domain.DateRule
	for id := int64(1); id <= f.nextID; id++ {
		rule, ok := f.rules[id]
		if !ok || rule.DoctorID != doctorID {
			continue
		}
		if rule.TargetDate.Before(from) || rule.TargetDate.After(to) {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

func (f *fakeDateRepo) Update(_ context.Context, rule *domain.DateRule) error {
	if _, ok := f.rules[rule.ID]; !ok {
		return dateRepoNotFound()
	}
	copied := *rule
	f.rules[rule.ID] = &copied
	return nil
}

func (f *fakeDateRepo) SetActive(_ context.Context, id int64, active bool) error {
	rule, ok := f.rules[id]
	if !ok {
		return dateRepoNotFound()
	}
	rule.IsActive = active
	return nil
}

func (f *fakeDateRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rules[id]; !ok {
		return dateRepoNotFound()
	}
	delete(f.rules, id)
	return nil
}

type fakeDirectory struct {
	err error
}

func (f *fakeDirectory) GetDoctor(_ context.Context, _ int64) (*directoryClient.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &directoryClient.Doctor{ID: 7}, nil
}

// owner совпадает с DoctorID правил, создаваемых в тестах
var owner = models.Actor{UserID: 7}

func newTestService(weekly *fakeWeeklyRepo, dates *fakeDateRepo, dir *fakeDirectory) *Service {
	return NewService(weekly, dates, dir, passthroughTxManager{}, noopLogger{})
}

func TestCreateWeekly_Defaults(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{})

	resp, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID:  7,
		DayOfWeek: 0,
		StartHour: 9,
		EndHour:   13,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultMaxPatients, resp.MaxPatients)
	assert.Equal(t, string(domain.DefaultMode), resp.Mode)
	assert.True(t, resp.IsActive)
}

func TestCreateWeekly_Validation(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{})

	tests := []struct {
		name    string
		req     *models.CreateWeeklyRuleRequest
		wantErr error
	}{
		{
			"start after end",
			&models.CreateWeeklyRuleRequest{DoctorID: 7, DayOfWeek: 0, StartHour: 13, EndHour: 9},
			ErrInvalidHours,
		},
		{
			"end above 24",
			&models.CreateWeeklyRuleRequest{DoctorID: 7, DayOfWeek: 0, StartHour: 20, EndHour: 25},
			ErrInvalidHours,
		},
		{
			"negative day",
			&models.CreateWeeklyRuleRequest{DoctorID: 7, DayOfWeek: -1, StartHour: 9, EndHour: 13},
			ErrInvalidDayOfWeek,
		},
		{
			"day above six",
			&models.CreateWeeklyRuleRequest{DoctorID: 7, DayOfWeek: 7, StartHour: 9, EndHour: 13},
			ErrInvalidDayOfWeek,
		},
		{
			"zero capacity",
			&models.CreateWeeklyRuleRequest{DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, MaxPatients: ptr.Ptr(0)},
			ErrInvalidCapacity,
		},
		{
			"unknown mode",
			&models.CreateWeeklyRuleRequest{DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13, Mode: ptr.Ptr("hybrid")},
			ErrInvalidMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateWeekly(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateWeekly_DoctorNotFound(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{err: directoryClient.ErrDoctorNotFound})

	_, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateWeekly_DirectoryDegradedDoesNotBlock(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{err: errors.New("timeout")})

	_, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	assert.NoError(t, err)
}

func TestCreateDate(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{})

	resp, err := svc.CreateDate(context.Background(), &models.CreateDateRuleRequest{
		DoctorID:    7,
		TargetDate:  "2025-06-02",
		StartHour:   10,
		EndHour:     12,
		MaxPatients: ptr.Ptr(2),
		Mode:        ptr.Ptr("online"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-06-02", resp.TargetDate)
	assert.Equal(t, 2, resp.MaxPatients)
	assert.Equal(t, "online", resp.Mode)
}

func TestCreateDate_InvalidDate(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{})

	_, err := svc.CreateDate(context.Background(), &models.CreateDateRuleRequest{
		DoctorID: 7, TargetDate: "02.06.2025", StartHour: 10, EndHour: 12,
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSetWeeklySchedule_ReplacesOnlyMentionedDays(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	// исходное расписание: понедельник и среда
	_, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)
	_, err = svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 2, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	// замена понедельника двумя новыми окнами
	resp, err := svc.SetWeeklySchedule(context.Background(), &models.SetWeeklyScheduleRequest{
		DoctorID: 7,
		Rules: []models.CreateWeeklyRuleRequest{
			{DayOfWeek: 0, StartHour: 8, EndHour: 12},
			{DayOfWeek: 0, StartHour: 14, EndHour: 18},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Rules, 3)

	mondayHours := make([][2]int, 0)
	wednesdayCount := 0
	for _, rule := range resp.Rules {
		switch rule.DayOfWeek {
		case 0:
			mondayHours = append(mondayHours, [2]int{rule.StartHour, rule.EndHour})
		case 2:
			wednesdayCount++
		}
	}
	assert.ElementsMatch(t, [][2]int{{8, 12}, {14, 18}}, mondayHours)
	// среда не упомянута в запросе и не тронута
	assert.Equal(t, 1, wednesdayCount)
}

func TestSetWeeklySchedule_EmptyRules(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{})

	_, err := svc.SetWeeklySchedule(context.Background(), &models.SetWeeklyScheduleRequest{DoctorID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateWeekly_PartialPatch(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	created, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	resp, err := svc.UpdateWeekly(context.Background(), created.ID, owner, &models.UpdateRuleRequest{
		MaxPatients: ptr.Ptr(6),
		IsActive:    ptr.Ptr(false),
	})
	require.NoError(t, err)

	// нетронутые поля сохраняются
	assert.Equal(t, 9, resp.StartHour)
	assert.Equal(t, 13, resp.EndHour)
	assert.Equal(t, 6, resp.MaxPatients)
	assert.False(t, resp.IsActive)
}

func TestUpdateWeekly_ActiveFlagOnly(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	created, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	resp, err := svc.UpdateWeekly(context.Background(), created.ID, owner, &models.UpdateRuleRequest{
		IsActive: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, 9, resp.StartHour)
	assert.False(t, weekly.rules[created.ID].IsActive)
}

func TestUpdateWeekly_InvalidPatchRejected(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	created, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	// итоговые значения после патча должны оставаться согласованными
	_, err = svc.UpdateWeekly(context.Background(), created.ID, owner, &models.UpdateRuleRequest{
		StartHour: ptr.Ptr(14),
	})
	assert.ErrorIs(t, err, ErrInvalidHours)
}

func TestUpdateWeekly_NotFound(t *testing.T) {
	svc := newTestService(newFakeWeeklyRepo(), newFakeDateRepo(), &fakeDirectory{})

	_, err := svc.UpdateWeekly(context.Background(), 42, owner, &models.UpdateRuleRequest{MaxPatients: ptr.Ptr(2)})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestListDate_Period(t *testing.T) {
	dates := newFakeDateRepo()
	svc := newTestService(newFakeWeeklyRepo(), dates, &fakeDirectory{})

	for _, d := range []string{"2025-06-02", "2025-06-10", "2025-07-01"} {
		_, err := svc.CreateDate(context.Background(), &models.CreateDateRuleRequest{
			DoctorID: 7, TargetDate: d, StartHour: 9, EndHour: 12,
		})
		require.NoError(t, err)
	}

	resp, err := svc.ListDate(context.Background(), &models.ListDateRulesRequest{
		DoctorID: 7, FromDate: "2025-06-01", ToDate: "2025-06-30",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Rules, 2)

	_, err = svc.ListDate(context.Background(), &models.ListDateRulesRequest{
		DoctorID: 7, FromDate: "2025-06-30", ToDate: "2025-06-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDeleteWeekly(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	created, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWeekly(context.Background(), created.ID, owner))
	assert.ErrorIs(t, svc.DeleteWeekly(context.Background(), created.ID, owner), ErrRuleNotFound)
}

func TestUpdateWeekly_ForeignDoctorForbidden(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	created, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	stranger := models.Actor{UserID: 8}
	_, err = svc.UpdateWeekly(context.Background(), created.ID, stranger, &models.UpdateRuleRequest{
		MaxPatients: ptr.Ptr(2),
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// правило не изменилось
	assert.Equal(t, domain.DefaultMaxPatients, weekly.rules[created.ID].MaxPatients)
}

func TestDeleteWeekly_OwnershipEnforced(t *testing.T) {
	weekly := newFakeWeeklyRepo()
	svc := newTestService(weekly, newFakeDateRepo(), &fakeDirectory{})

	created, err := svc.CreateWeekly(context.Background(), &models.CreateWeeklyRuleRequest{
		DoctorID: 7, DayOfWeek: 0, StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	stranger := models.Actor{UserID: 8}
	assert.ErrorIs(t, svc.DeleteWeekly(context.Background(), created.ID, stranger), ErrForbidden)

	// администратор не ограничен владением
	admin := models.Actor{UserID: 8, IsAdmin: true}
	require.NoError(t, svc.DeleteWeekly(context.Background(), created.ID, admin))
}

func TestUpdateDate_ForeignDoctorForbidden(t *testing.T) {
	dates := newFakeDateRepo()
	svc := newTestService(newFakeWeeklyRepo(), dates, &fakeDirectory{})

	created, err := svc.CreateDate(context.Background(), &models.CreateDateRuleRequest{
		DoctorID: 7, TargetDate: "2025-06-02", StartHour: 9, EndHour: 13,
	})
	require.NoError(t, err)

	stranger := models.Actor{UserID: 8}
	_, err = svc.UpdateDate(context.Background(), created.ID, stranger, &models.UpdateRuleRequest{
		IsActive: ptr.Ptr(false),
	})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, svc.DeleteDate(context.Background(), created.ID, stranger), ErrForbidden)
	require.NoError(t, svc.DeleteDate(context.Background(), created.ID, owner))
}
