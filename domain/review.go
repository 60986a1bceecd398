package domain

import "time"

const (
	MinReviewRating     = 1
	MaxReviewRating     = 5
	DefaultReviewRating = 5
)

type Review struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	SellerID   uint          `gorm:"column:seller_id;index;not null" json:"seller"`
	Seller     SellerProfile `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE" json:"-"`
	BuyerID    *uint         `gorm:"column:buyer_id;index" json:"buyer"`
	Buyer      *BuyerProfile `gorm:"foreignKey:BuyerID;constraint:OnDelete:SET NULL" json:"-"`
	BuyerEmail *string       `gorm:"column:buyer_email;size:254" json:"buyer_email"`
	BuyerName  *string       `gorm:"column:buyer_name;size:255" json:"buyer_name"`
	Rating     int           `gorm:"column:rating;type:smallint;not null;default:5;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string        `gorm:"column:comment;type:text;not null" json:"comment"`
	AdminReply *string       `gorm:"column:admin_reply;type:text" json:"admin_reply"`
	CreatedAt  time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
