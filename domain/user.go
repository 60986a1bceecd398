package domain

import (
	"time"
)

// User is the identity record every profile hangs off. Sellers and buyers
// use their e-mail as username.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"column:email;index;not null" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
