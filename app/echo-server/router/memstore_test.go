package router

import (
	"context"
	"strings"
	"sync"
	"time"

	"verifiedMarket/domain"
	"verifiedMarket/pkg/apperror"
)

// memDB backs the repository fakes used by the route tests.
type memDB struct {
	mu       sync.Mutex
	users    []domain.User
	sellers  []domain.SellerProfile
	buyers   []domain.BuyerProfile
	admins   []domain.AdminProfile
	products []domain.Product
	reviews  []domain.Review
}

func (db *memDB) insertUser(u *domain.User) {
	u.ID = uint(len(db.users) + 1)
	u.CreatedAt = time.Now()
	db.users = append(db.users, *u)
}

func (db *memDB) userByID(id uint) domain.User {
	for _, u := range db.users {
		if u.ID == id {
			return u
		}
	}
	return domain.User{}
}

type memUsers struct{ db *memDB }

func (r memUsers) IsLoginTaken(_ context.Context, login string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, apperror.NotFound("record not found")
}

func (r memUsers) FindByUsername(_ context.Context, username string) (domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, apperror.NotFound("record not found")
}

type memSellers struct{ db *memDB }

func (r memSellers) Create(_ context.Context, s *domain.SellerProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.insertUser(&s.User)
	s.UserID = s.User.ID
	s.ID = uint(len(r.db.sellers) + 1)
	r.db.sellers = append(r.db.sellers, *s)
	return nil
}

func (r memSellers) find(match func(domain.SellerProfile) bool) []domain.SellerProfile {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.SellerProfile
	for _, s := range r.db.sellers {
		if match(s) {
			s.User = r.db.userByID(s.UserID)
			out = append(out, s)
		}
	}
	return out
}

func (r memSellers) first(match func(domain.SellerProfile) bool) (domain.SellerProfile, error) {
	found := r.find(match)
	if len(found) == 0 {
		return domain.SellerProfile{}, apperror.NotFound("record not found")
	}
	return found[0], nil
}

func (r memSellers) FindByID(_ context.Context, id uint) (domain.SellerProfile, error) {
	return r.first(func(s domain.SellerProfile) bool { return s.ID == id })
}

func (r memSellers) FindByUserID(_ context.Context, userID uint) (domain.SellerProfile, error) {
	return r.first(func(s domain.SellerProfile) bool { return s.UserID == userID })
}

func (r memSellers) FindAll(_ context.Context) ([]domain.SellerProfile, error) {
	return r.find(func(domain.SellerProfile) bool { return true }), nil
}

func (r memSellers) FindByVerified(_ context.Context, verified bool) ([]domain.SellerProfile, error) {
	return r.find(func(s domain.SellerProfile) bool { return s.IsVerified == verified }), nil
}

func (r memSellers) FindUnnotified(_ context.Context) ([]domain.SellerProfile, error) {
	return r.find(func(s domain.SellerProfile) bool { return !s.Notified }), nil
}

func (r memSellers) FindVerifiedByBusinessName(_ context.Context, name string) (domain.SellerProfile, error) {
	return r.first(func(s domain.SellerProfile) bool {
		return s.IsVerified && strings.EqualFold(s.BusinessName, name)
	})
}

func (r memSellers) UpdateVerification(_ context.Context, id uint, isVerified, notified bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.sellers {
		if r.db.sellers[i].ID == id {
			r.db.sellers[i].IsVerified = isVerified
			r.db.sellers[i].Notified = notified
			return nil
		}
	}
	return apperror.NotFound("record not found")
}

type memBuyers struct{ db *memDB }

func (r memBuyers) Create(_ context.Context, b *domain.BuyerProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if b.User != nil {
		r.db.insertUser(b.User)
		b.UserID = &b.User.ID
	}
	b.ID = uint(len(r.db.buyers) + 1)
	r.db.buyers = append(r.db.buyers, *b)
	return nil
}

func (r memBuyers) FindByUserID(_ context.Context, userID uint) (domain.BuyerProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.buyers {
		if b.UserID != nil && *b.UserID == userID {
			return b, nil
		}
	}
	return domain.BuyerProfile{}, apperror.NotFound("record not found")
}

func (r memBuyers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.buyers {
		if strings.EqualFold(b.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type memAdmins struct{ db *memDB }

func (r memAdmins) Create(_ context.Context, a *domain.AdminProfile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a.UserID == 0 {
		r.db.insertUser(&a.User)
		a.UserID = a.User.ID
	}
	a.ID = uint(len(r.db.admins) + 1)
	r.db.admins = append(r.db.admins, *a)
	return nil
}

func (r memAdmins) FindByUserID(_ context.Context, userID uint) (domain.AdminProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.admins {
		if a.UserID == userID {
			return a, nil
		}
	}
	return domain.AdminProfile{}, apperror.NotFound("record not found")
}

type memProducts struct{ db *memDB }

func (r memProducts) Create(_ context.Context, p *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = uint(len(r.db.products) + 1)
	p.CreatedAt = time.Now()
	r.db.products = append(r.db.products, *p)
	return nil
}

func (r memProducts) FindBySellerID(_ context.Context, sellerID uint) ([]domain.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Product
	for _, p := range r.db.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memReviews struct{ db *memDB }

func (r memReviews) Create(_ context.Context, rv *domain.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rv.ID = uint(len(r.db.reviews) + 1)
	r.db.reviews = append(r.db.reviews, *rv)
	return nil
}

func (r memReviews) FindByID(_ context.Context, id uint) (domain.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rv := range r.db.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return domain.Review{}, apperror.NotFound("record not found")
}

func (r memReviews) FindBySellerID(_ context.Context, sellerID uint) ([]domain.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Review
	for _, rv := range r.db.reviews {
		if rv.SellerID == sellerID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r memReviews) UpdateAdminReply(_ context.Context, id uint, reply string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.reviews {
		if r.db.reviews[i].ID == id {
			r.db.reviews[i].AdminReply = &reply
			return nil
		}
	}
	return apperror.NotFound("record not found")
}
