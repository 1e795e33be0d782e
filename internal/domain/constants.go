package domain

// Default rule values
const (
	DefaultMaxPatients = 4
	DefaultMode        = ModeOffline
)

// Business validation constants
const (
	MinHour            = 0
	MaxHour            = 24
	MinRulePatients    = 1
	MaxRulePatients    = 100
	MaxCancelReasonLen = 500
	MaxNotesLength     = 1000

	// SlotStepMinutes шаг нарезки окна на почасовые слоты
	SlotStepMinutes = 60

	// MaxDateScanDays предохранитель для поиска ближайшей свободной даты
	MaxDateScanDays = 120

	// ScheduleListingDays горизонт выдачи date rules в расписании врача (± дней)
	ScheduleListingDays = 90
)

// Time format constants
const (
	DateFormat     = "2006-01-02"          // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04:05" // naive local datetime
)

// ActiveStatuses список статусов, занимающих вместимость окна
// Используется при подсчёте свободных мест
var ActiveStatuses = []AppointmentStatus{
	StatusRequested,
	StatusApproved,
}

// TerminalStatuses список статусов, освобождающих вместимость окна
var TerminalStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCancelled,
}

// ValidVisitMode reports whether the value is a known visit mode
func ValidVisitMode(m VisitMode) bool {
	return m == ModeOnline || m == ModeOffline
}

// ValidStatus reports whether the value is a known appointment status
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusRequested, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
