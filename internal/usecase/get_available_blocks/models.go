package get_available_blocks

import "time"

// Request модель запроса на список блоков расписания
type Request struct {
	DoctorID int64   // ID врача
	Date     string  // Дата в формате YYYY-MM-DD
	Mode     *string // Фильтр по формату приёма (опционально)
}

// Block рабочее окно врача целиком, с занятостью
type Block struct {
	StartTime   time.Time // Начало окна
	EndTime     time.Time // Конец окна
	Mode        string    // Формат приёма
	MaxPatients int       // Вместимость окна
	Booked      int       // Занятых мест (любое пересечение с окном)
	SlotMinutes int       // Расчётная длительность одного визита
}

// Response модель ответа со списком блоков
type Response struct {
	DoctorID int64   // ID врача
	Date     string  // Дата
	Blocks   []Block // Блоки со свободными местами, в хронологическом порядке
}
