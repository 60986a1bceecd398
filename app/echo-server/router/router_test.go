package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verifiedMarket/business/admin"
	"verifiedMarket/business/buyer"
	"verifiedMarket/business/product"
	"verifiedMarket/business/review"
	"verifiedMarket/business/seller"
	"verifiedMarket/business/session"
	"verifiedMarket/internal/middleware"
	"verifiedMarket/internal/rest"
	"verifiedMarket/pkg/storage"
	"verifiedMarket/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

const (
	adminUsername = "root"
	adminPassword = "rootpass"
)

func init() {
	utils.InitJWT("router_test_secret", time.Hour)
}

type testServer struct {
	e      *echo.Echo
	db     *memDB
	images *storage.ImageStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := &memDB{}
	users := memUsers{db}
	sellers := memSellers{db}
	buyers := memBuyers{db}

	images := storage.NewImageStore(memblob.OpenBucket(nil))
	t.Cleanup(func() { images.Close() })

	validate := utils.NewValidator()
	sessions := session.NewSessionService(nil)

	sellerService := seller.NewSellerService(users, sellers, sessions, seller.NoopHook{}, validate)
	productService := product.NewProductService(memProducts{db}, sellers, images)
	buyerService := buyer.NewBuyerService(users, buyers, sessions, validate)
	adminService := admin.NewAdminService(users, memAdmins{db}, sessions)
	reviewService := review.NewReviewService(memReviews{db}, sellers, buyers, validate)

	require.NoError(t, adminService.EnsureAdmin(context.Background(), adminUsername, adminPassword, "Root"))

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Pre(echomiddleware.AddTrailingSlash())

	Setup(e, Handlers{
		Seller:  rest.NewSellerHandler(sellerService),
		Product: rest.NewProductHandler(productService),
		Buyer:   rest.NewBuyerHandler(buyerService),
		Review:  rest.NewReviewHandler(reviewService),
		Admin:   rest.NewAdminHandler(adminService, sellerService, reviewService),
		Auth:    rest.NewAuthHandler(sessions),
	}, Guards{
		AuthRequired: middleware.AuthMiddleware(nil),
		OptionalAuth: middleware.OptionalAuth(nil),
		AdminOnly:    middleware.AdminOnly(adminService),
	})

	return &testServer{e: e, db: db, images: images}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) &&
		strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func (s *testServer) list(t *testing.T, path, token string) (int, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var decoded []map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func (s *testServer) registerSeller(t *testing.T, business, email string) map[string]any {
	t.Helper()

	status, body := s.do(t, http.MethodPost, "/sellers/register/", `{
		"business_name": "`+business+`",
		"owner_name": "Owner",
		"phone_number": "555-0100",
		"business_id": "BIZ-1",
		"address": "1 Market St",
		"email": "`+email+`",
		"password": "secret1",
		"confirm_password": "secret1"
	}`, "")
	require.Equal(t, http.StatusCreated, status, body)
	return body["seller"].(map[string]any)
}

func (s *testServer) loginSeller(t *testing.T, email string) string {
	t.Helper()

	status, body := s.do(t, http.MethodPost, "/sellers/login/", `{"email":"`+email+`","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()

	status, body := s.do(t, http.MethodPost, "/admins/login/",
		`{"username":"`+adminUsername+`","password":"`+adminPassword+`"}`, "")
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func TestHomeAndHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rest.WelcomeMessage, rec.Body.String())

	status, body := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestVerifiedSellerFlow(t *testing.T) {
	s := newTestServer(t)

	registered := s.registerSeller(t, "Acme", "a@b.com")
	assert.Equal(t, false, registered["is_verified"])
	assert.Equal(t, false, registered["notified"])

	adminToken := s.adminToken(t)

	// no trailing slash on purpose
	status, body := s.do(t, http.MethodPatch, "/sellers/1/approve", "", adminToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Seller 'Acme' approved successfully.", body["message"])
	assert.Equal(t, true, body["seller"].(map[string]any)["is_verified"])

	// approving twice keeps the seller verified
	status, body = s.do(t, http.MethodPatch, "/sellers/1/approve/", "", adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["seller"].(map[string]any)["is_verified"])

	sellerToken := s.loginSeller(t, "a@b.com")

	status, body = s.do(t, http.MethodPost, "/products/upload/", `{"name":"Widget","price":"9.99"}`, sellerToken)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	created := body["product"].(map[string]any)
	assert.Equal(t, "Widget", created["name"])
	assert.Equal(t, "9.99", created["price"])
	assert.Equal(t, float64(1), created["seller"])

	status, _ = s.do(t, http.MethodGet, "/sellers/1/products/", "", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestUnverifiedSellerCannotUpload(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")
	sellerToken := s.loginSeller(t, "a@b.com")

	for _, payload := range []string{
		`{"name":"Widget","price":"9.99"}`,
		`{"name":"","price":"not a price"}`,
		`{}`,
	} {
		status, body := s.do(t, http.MethodPost, "/products/upload/", payload, sellerToken)
		assert.Equal(t, http.StatusForbidden, status, payload)
		assert.Equal(t, "Not authorized or seller not approved.", body["message"], payload)
	}

	assert.Empty(t, s.db.products)
}

func TestUploadRequiresToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/products/upload/", `{"name":"Widget","price":"1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDuplicateEmailRegistration(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")

	status, body := s.do(t, http.MethodPost, "/sellers/register/", `{
		"business_name": "Other",
		"owner_name": "Owner",
		"phone_number": "555",
		"business_id": "B2",
		"address": "x",
		"email": "a@b.com",
		"password": "secret1",
		"confirm_password": "secret1"
	}`, "")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"email": "Email already in use."}, body["data"])
}

func TestPasswordMismatch(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/sellers/register/", `{
		"business_name": "Acme",
		"owner_name": "Owner",
		"phone_number": "555",
		"business_id": "B1",
		"address": "x",
		"email": "a@b.com",
		"password": "secret1",
		"confirm_password": "secret2"
	}`, "")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"password": "Passwords do not match."}, body["data"])
}

func TestAdminLoginWithNonAdminIdentity(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")

	status, body := s.do(t, http.MethodPost, "/admins/login/", `{"username":"a@b.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, admin.MsgInvalidCredentials, body["message"])
	assert.NotContains(t, body, "token")

	status, _ = s.do(t, http.MethodPost, "/admins/login/", `{"username":"root","password":"wrong"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSellerLoginFailures(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")

	status, body := s.do(t, http.MethodPost, "/sellers/login/", `{"email":"nobody@b.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, seller.MsgNoSellerForEmail, body["message"])

	status, body = s.do(t, http.MethodPost, "/sellers/login/", `{"email":"a@b.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, seller.MsgInvalidPassword, body["message"])
}

func TestLookupByBusinessName(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")
	s.registerSeller(t, "Hidden", "h@b.com")
	adminToken := s.adminToken(t)

	status, _ := s.do(t, http.MethodGet, "/sellers/by-business/acme/", "", "")
	assert.Equal(t, http.StatusNotFound, status, "unverified sellers are not listed")

	status, _ = s.do(t, http.MethodPatch, "/admins/sellers/1/verify/", `{"action":"approve"}`, adminToken)
	require.Equal(t, http.StatusOK, status)

	for _, name := range []string{"Acme", "acme", "ACME"} {
		status, body := s.do(t, http.MethodGet, "/sellers/by-business/"+name+"/", "", "")
		assert.Equal(t, http.StatusOK, status, name)
		assert.Equal(t, float64(1), body["id"], name)
	}

	status, body := s.do(t, http.MethodGet, "/sellers/by-business/Hidden/", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Seller not found", body["message"])

	status, _ = s.do(t, http.MethodGet, "/sellers/by-business/Nope/", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminVerifyApproveThenReject(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")
	adminToken := s.adminToken(t)

	status, body := s.do(t, http.MethodPatch, "/admins/sellers/1/verify/", `{"action":"approve"}`, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Seller approved.", body["detail"])

	status, body = s.do(t, http.MethodPatch, "/admins/sellers/1/verify/", `{"action":"reject"}`, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Seller rejected.", body["detail"])
	assert.False(t, s.db.sellers[0].IsVerified)

	status, _ = s.do(t, http.MethodPatch, "/admins/sellers/42/verify/", `{"action":"approve"}`, adminToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPatch, "/admins/sellers/1/verify/", `{"action":"ban"}`, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPatch, "/sellers/42/approve/", "", adminToken)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminVerifyUnknownSellerWithBadAction(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.adminToken(t)

	for _, payload := range []string{`{}`, `{"action":"ban"}`} {
		status, body := s.do(t, http.MethodPatch, "/admins/sellers/99/verify/", payload, adminToken)
		assert.Equal(t, http.StatusNotFound, status, payload)
		assert.Equal(t, false, body["success"], payload)
	}
}

func TestSellerListings(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")
	s.registerSeller(t, "Beta", "b@b.com")
	adminToken := s.adminToken(t)

	status, _ := s.do(t, http.MethodPatch, "/sellers/2/approve/", "", adminToken)
	require.Equal(t, http.StatusOK, status)

	status, pending := s.list(t, "/sellers/pending/", adminToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, pending, 1)
	assert.Equal(t, "Acme", pending[0]["business_name"])

	for _, path := range []string{"/sellers/verified/", "/sellers/verified/public/"} {
		status, verified := s.list(t, path, "")
		require.Equal(t, http.StatusOK, status, path)
		require.Len(t, verified, 1, path)
		assert.Equal(t, "Beta", verified[0]["business_name"])
		assert.NotContains(t, verified[0], "phone_number")
	}

	status, all := s.list(t, "/admins/sellers/", adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, all, 2)

	status, unnotified := s.list(t, "/sellers/notifications/", adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, unnotified, 2)
}

func TestAdminRoutesRejectOtherActors(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")
	sellerToken := s.loginSeller(t, "a@b.com")

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/sellers/pending/"},
		{http.MethodGet, "/sellers/notifications/"},
		{http.MethodPatch, "/sellers/1/approve/"},
		{http.MethodGet, "/admins/sellers/"},
		{http.MethodPatch, "/admins/sellers/1/verify/"},
	}

	for _, p := range paths {
		status, _ := s.do(t, p.method, p.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, status, p.path)

		status, _ = s.do(t, p.method, p.path, "", sellerToken)
		assert.Equal(t, http.StatusForbidden, status, p.path)
	}

	assert.False(t, s.db.sellers[0].IsVerified)
}

func TestReviews(t *testing.T) {
	s := newTestServer(t)

	s.registerSeller(t, "Acme", "a@b.com")

	// pending sellers can be reviewed too
	status, body := s.do(t, http.MethodPost, "/sellers/1/reviews/",
		`{"rating":4,"comment":"Quick shipping","buyer_email":"x@y.com"}`, "")
	require.Equal(t, http.StatusCreated, status, body)

	status, _ = s.do(t, http.MethodPost, "/sellers/1/reviews/", `{"comment":"No email"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/sellers/1/reviews/", `{"rating":9,"comment":"x","buyer_email":"x@y.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/sellers/9/reviews/", `{"comment":"x","buyer_email":"x@y.com"}`, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(t, http.MethodPost, "/buyers/register/",
		`{"full_name":"Bea","email":"bea@y.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status, body)

	status, body = s.do(t, http.MethodPost, "/buyers/login/", `{"email":"bea@y.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, status, body)
	buyerToken := body["token"].(string)

	status, body = s.do(t, http.MethodPost, "/sellers/1/reviews/", `{"comment":"Lovely"}`, buyerToken)
	require.Equal(t, http.StatusCreated, status, body)

	require.Len(t, s.db.reviews, 2)
	linked := s.db.reviews[1]
	require.NotNil(t, linked.BuyerID)
	assert.Equal(t, "bea@y.com", *linked.BuyerEmail)
	assert.Equal(t, "Bea", *linked.BuyerName)
	assert.Equal(t, 5, linked.Rating)

	status, _ = s.do(t, http.MethodGet, "/sellers/1/reviews/", "", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPatch, "/admins/reviews/1/reply/", `{"admin_reply":"Thank you"}`, buyerToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPatch, "/admins/reviews/1/reply/", `{"admin_reply":"Thank you"}`, s.adminToken(t))
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, s.db.reviews[0].AdminReply)
	assert.Equal(t, "Thank you", *s.db.reviews[0].AdminReply)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	token := s.adminToken(t)

	status, _ := s.do(t, http.MethodPost, "/auth/logout/", "", token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/auth/logout/", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodPost, "/auth/logout-all", "", token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/auth/logout-all/", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
