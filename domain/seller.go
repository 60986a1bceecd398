package domain

// CREATE TABLE public.seller_profiles (
//     id              BIGSERIAL PRIMARY KEY,
//     user_id         BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
//     business_name   VARCHAR(255) NOT NULL,
//     owner_name      VARCHAR(255),
//     phone_number    VARCHAR(20),
//     business_id     VARCHAR(100),
//     address         TEXT,
//     is_verified     BOOLEAN DEFAULT FALSE,
//     notified        BOOLEAN DEFAULT FALSE
// );

type SellerProfile struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"column:user_id;uniqueIndex;not null"`
	User         User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BusinessName string `gorm:"column:business_name;size:255;not null"`
	OwnerName    string `gorm:"column:owner_name;size:255"`
	PhoneNumber  string `gorm:"column:phone_number;size:20"`
	BusinessID   string `gorm:"column:business_id;size:100"`
	Address      string `gorm:"column:address;type:text"`
	IsVerified   bool   `gorm:"column:is_verified;default:false;index"`
	Notified     bool   `gorm:"column:notified;default:false;index"`
}

func (SellerProfile) TableName() string {
	return "seller_profiles"
}

// SellerResponse is the full seller representation.
type SellerResponse struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"user"`
	Email        string `json:"email"`
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	PhoneNumber  string `json:"phone_number"`
	BusinessID   string `json:"business_id"`
	Address      string `json:"address"`
	IsVerified   bool   `json:"is_verified"`
	Notified     bool   `json:"notified"`
}

// PublicSellerResponse is the field subset shown to anonymous buyers.
type PublicSellerResponse struct {
	BusinessName string `json:"business_name"`
	OwnerName    string `json:"owner_name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	IsVerified   bool   `json:"is_verified"`
}

func (s SellerProfile) Response() SellerResponse {
	return SellerResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		Email:        s.User.Email,
		BusinessName: s.BusinessName,
		OwnerName:    s.OwnerName,
		PhoneNumber:  s.PhoneNumber,
		BusinessID:   s.BusinessID,
		Address:      s.Address,
		IsVerified:   s.IsVerified,
		Notified:     s.Notified,
	}
}

func (s SellerProfile) PublicResponse() PublicSellerResponse {
	return PublicSellerResponse{
		BusinessName: s.BusinessName,
		OwnerName:    s.OwnerName,
		Email:        s.User.Email,
		Address:      s.Address,
		IsVerified:   s.IsVerified,
	}
}

func SellerResponses(sellers []SellerProfile) []SellerResponse {
	out := make([]SellerResponse, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, s.Response())
	}
	return out
}

func PublicSellerResponses(sellers []SellerProfile) []PublicSellerResponse {
	out := make([]PublicSellerResponse, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, s.PublicResponse())
	}
	return out
}
