package get_available_slots

import "time"

// Request модель запроса на список почасовых слотов
type Request struct {
	DoctorID int64   // ID врача
	Date     string  // Дата в формате YYYY-MM-DD
	Mode     *string // Фильтр по формату приёма (опционально)
}

// Slot почасовой слот с занятостью
type Slot struct {
	StartTime   time.Time // Начало слота
	EndTime     time.Time // Конец слота
	Mode        string    // Формат приёма окна
	MaxPatients int       // Вместимость слота
	Booked      int       // Занятых мест (точное совпадение границ)
}

// Response модель ответа со списком слотов
type Response struct {
	DoctorID int64  // ID врача
	Date     string // Дата
	Slots    []Slot // Слоты со свободными местами, в хронологическом порядке
}
