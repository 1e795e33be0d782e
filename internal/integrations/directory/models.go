package directory

// Doctor модель врача из справочника
type Doctor struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
	IsActive  bool   `json:"is_active"`
}

// Patient модель пациента из справочника
type Patient struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
