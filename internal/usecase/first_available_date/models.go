package first_available_date

// Request модель запроса на поиск ближайшей свободной даты
type Request struct {
	DoctorID int64   // ID врача
	FromDate *string // Дата начала поиска YYYY-MM-DD (опционально, по умолчанию сегодня)
	Mode     *string // Фильтр по формату приёма (опционально)
}

// Response модель ответа с найденной датой
type Response struct {
	DoctorID    int64  // ID врача
	Date        string // Ближайшая дата со свободным слотом
	ScannedDays int    // Сколько дней просмотрено до находки
}
