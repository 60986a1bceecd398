package domain

import "time"

type BuyerProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"column:user_id;uniqueIndex" json:"user"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FullName    *string   `gorm:"column:full_name;size:255" json:"full_name"`
	Email       string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PhoneNumber *string   `gorm:"column:phone_number;size:32" json:"phone_number"`
	Address     *string   `gorm:"column:address;type:text" json:"address"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (BuyerProfile) TableName() string {
	return "buyer_profiles"
}

// DisplayName falls back to the e-mail when no full name was given.
func (b BuyerProfile) DisplayName() string {
	if b.FullName != nil && *b.FullName != "" {
		return *b.FullName
	}
	return b.Email
}
