package model

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session 每個 caller 一份，不會被並行修改
type Session struct {
	ID      string  `json:"-"`
	UserID  uint    `json:"user_id"`
	Cart    Cart    `json:"cart"`
	Flashes []Flash `json:"flashes"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Cart: Cart{},
	}
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}
