package domain

import "time"

type AdminProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null" json:"user"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FullName  string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AdminProfile) TableName() string {
	return "admin_profiles"
}

// AdminSummary is returned by admin login.
type AdminSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
