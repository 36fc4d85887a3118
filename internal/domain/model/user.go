package model

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null;type:varchar(150)" json:"email"`
	PasswordHash string `gorm:"not null;type:varchar(255)" json:"-"`
	Name         string `gorm:"not null;type:varchar(120);default:''" json:"name"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`
	BaseModel
}
