package notification

import (
	"context"
	"testing"

	"verifiedMarket/domain"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSellerRepo struct {
	mock.Mock
}

func (m *mockSellerRepo) FindUnnotified(ctx context.Context) ([]domain.SellerProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SellerProfile), args.Error(1)
}

func (m *mockSellerRepo) MarkNotified(ctx context.Context, id uint, isVerified bool) (bool, error) {
	args := m.Called(ctx, id, isVerified)
	return args.Bool(0), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	args := m.Called(ctx, toName, toEmail, subject, message)
	return args.Error(0)
}

func seller(id uint, email string, verified bool) domain.SellerProfile {
	return domain.SellerProfile{
		ID:           id,
		OwnerName:    "Owner",
		BusinessName: "Shop",
		IsVerified:   verified,
		User:         domain.User{Email: email},
	}
}

func TestDispatcher_DispatchPending(t *testing.T) {
	repo := new(mockSellerRepo)
	sender := new(mockSender)
	d := NewDispatcher(repo, sender, "Market")
	ctx := context.Background()

	repo.On("FindUnnotified", ctx).Return([]domain.SellerProfile{
		seller(1, "a@x.com", true),
		seller(2, "b@x.com", false),
		seller(3, "c@x.com", true),
	}, nil)

	sender.On("SendEmail", ctx, "Owner", "a@x.com", mock.MatchedBy(func(s string) bool {
		return s == "Market: your seller account is verified"
	}), mock.Anything).Return(nil)
	sender.On("SendEmail", ctx, "Owner", "b@x.com", mock.MatchedBy(func(s string) bool {
		return s == "Market: your seller account is pending verification"
	}), mock.Anything).Return(errors.New("mailjet 500"))
	sender.On("SendEmail", ctx, "Owner", "c@x.com", mock.Anything, mock.Anything).Return(nil)

	repo.On("MarkNotified", ctx, uint(1), true).Return(true, nil).Once()
	repo.On("MarkNotified", ctx, uint(3), true).Return(false, nil).Once()

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)

	assert.Equal(t, Result{Sent: 1, Failed: 1, Skipped: 1}, res)
	repo.AssertNotCalled(t, "MarkNotified", ctx, uint(2), mock.Anything)
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestDispatcher_DispatchPending_ListFailure(t *testing.T) {
	repo := new(mockSellerRepo)
	sender := new(mockSender)
	d := NewDispatcher(repo, sender, "Market")
	ctx := context.Background()

	repo.On("FindUnnotified", ctx).Return([]domain.SellerProfile(nil), errors.New("db down"))

	_, err := d.DispatchPending(ctx)
	assert.Error(t, err)
	sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_DispatchPending_Cancelled(t *testing.T) {
	repo := new(mockSellerRepo)
	sender := new(mockSender)
	d := NewDispatcher(repo, sender, "Market")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo.On("FindUnnotified", ctx).Return([]domain.SellerProfile{seller(1, "a@x.com", true)}, nil)

	_, err := d.DispatchPending(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
