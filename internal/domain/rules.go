package domain

import "time"

// VisitMode represents how the patient is seen within a window
type VisitMode string

const (
	ModeOnline  VisitMode = "online"
	ModeOffline VisitMode = "offline"
)

// WeeklyRule represents a recurring availability window of a doctor.
// DayOfWeek uses the canonical Monday=0..Sunday=6 encoding everywhere;
// the hour range is half-open, [StartHour, EndHour), 0..24.
type WeeklyRule struct {
	ID          int64
	DoctorID    int64
	DayOfWeek   int
	StartHour   int
	EndHour     int
	MaxPatients int
	IsActive    bool
	Mode        VisitMode
	CreatedAt   time.Time
}

// Contains reports whether the rule fully contains the [startHour, endHour) range
func (r *WeeklyRule) Contains(startHour, endHour int) bool {
	return r.StartHour <= startHour && r.EndHour >= endHour
}

// ContainsHour reports whether the rule's window contains the given hour
func (r *WeeklyRule) ContainsHour(hour int) bool {
	return r.StartHour <= hour && hour < r.EndHour
}

// DateRule represents a one-off availability window for a specific calendar date.
// When at least one date rule exists for a date, date rules fully shadow the
// doctor's weekly rules for that date.
type DateRule struct {
	ID          int64
	DoctorID    int64
	TargetDate  time.Time // date only, midnight local
	StartHour   int
	EndHour     int
	MaxPatients int
	IsActive    bool
	Mode        VisitMode
	CreatedAt   time.Time
}

// Contains reports whether the rule fully contains the [startHour, endHour) range
func (r *DateRule) Contains(startHour, endHour int) bool {
	return r.StartHour <= startHour && r.EndHour >= endHour
}

// ContainsHour reports whether the rule's window contains the given hour
func (r *DateRule) ContainsHour(hour int) bool {
	return r.StartHour <= hour && hour < r.EndHour
}

// ScheduleWindow is a concrete doctor-specific time range on a given date,
// resolved from either a date rule or a weekly rule, within which a fixed
// number of patients may be seen.
type ScheduleWindow struct {
	Start       time.Time
	End         time.Time
	MaxPatients int
	Mode        VisitMode
	RuleID      int64 // id of the governing rule, 0 for a degenerate window
	FromDate    bool  // true when resolved from a date rule
}

// Minutes returns the window duration in whole minutes, never below 1
func (w *ScheduleWindow) Minutes() int {
	m := int(w.End.Sub(w.Start).Minutes())
	if m < 1 {
		return 1
	}
	return m
}

// SlotMinutes returns the even division of the window across its capacity,
// never below 1 minute
func (w *ScheduleWindow) SlotMinutes() int {
	capacity := w.MaxPatients
	if capacity < 1 {
		capacity = 1
	}
	m := w.Minutes() / capacity
	if m < 1 {
		return 1
	}
	return m
}

// DayOfWeekOf returns the canonical Monday=0..Sunday=6 day of week for t
func DayOfWeekOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
