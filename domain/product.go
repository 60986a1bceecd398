package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.products (
//     id           BIGSERIAL PRIMARY KEY,
//     seller_id    BIGINT NOT NULL REFERENCES seller_profiles(id) ON DELETE CASCADE,
//     name         VARCHAR(255) NOT NULL,
//     price        NUMERIC(10,2) NOT NULL,
//     description  TEXT,
//     image        VARCHAR(255),
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    uint            `gorm:"column:seller_id;index;not null" json:"seller"`
	Seller      SellerProfile   `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string          `gorm:"column:name;size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Image       string          `gorm:"column:image;size:255" json:"image"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
