package router

import (
	"verifiedMarket/internal/rest"
	"verifiedMarket/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Handlers groups everything the HTTP surface dispatches to.
type Handlers struct {
	Seller  *rest.SellerHandler
	Product *rest.ProductHandler
	Buyer   *rest.BuyerHandler
	Review  *rest.ReviewHandler
	Admin   *rest.AdminHandler
	Auth    *rest.AuthHandler
}

// Guards are the route-level middlewares. RateLimit may be nil.
type Guards struct {
	AuthRequired echo.MiddlewareFunc
	OptionalAuth echo.MiddlewareFunc
	AdminOnly    echo.MiddlewareFunc
	RateLimit    echo.MiddlewareFunc
}

func (g Guards) limited() []echo.MiddlewareFunc {
	if g.RateLimit == nil {
		return nil
	}
	return []echo.MiddlewareFunc{g.RateLimit}
}

// Setup registers every route. Paths end with a slash; requests without one
// are rewritten by the AddTrailingSlash pre-middleware.
func Setup(e *echo.Echo, h Handlers, g Guards) {
	SetupHomeRoutes(e)
	SetupSellerRoutes(e, h.Seller, g)
	SetupProductRoutes(e, h.Product, g)
	SetupReviewRoutes(e, h.Review, g)
	SetupBuyerRoutes(e, h.Buyer, g)
	SetupAdminRoutes(e, h.Admin, g)
	SetupAuthRoutes(e, h.Auth, g)
}

func SetupHomeRoutes(e *echo.Echo) {
	e.GET("/", rest.Home)
	e.GET("/healthz/", rest.Health)
	e.GET("/metrics/", metrics.Handler())
}

func SetupSellerRoutes(e *echo.Echo, handler *rest.SellerHandler, g Guards) {
	sellers := e.Group("/sellers")

	sellers.POST("/register/", handler.Register, g.limited()...)
	sellers.POST("/login/", handler.Login, g.limited()...)

	sellers.GET("/verified/", handler.ListVerified)
	sellers.GET("/verified/public/", handler.ListVerified)
	sellers.GET("/by-business/:name/", handler.LookupByBusinessName)

	sellers.GET("/pending/", handler.ListPending, g.AuthRequired, g.AdminOnly)
	sellers.GET("/notifications/", handler.ListNotifications, g.AuthRequired, g.AdminOnly)
	sellers.PATCH("/:id/approve/", handler.Approve, g.AuthRequired, g.AdminOnly)
}

func SetupProductRoutes(e *echo.Echo, handler *rest.ProductHandler, g Guards) {
	e.POST("/products/upload/", handler.Upload, g.AuthRequired)
	e.GET("/sellers/:id/products/", handler.ListBySeller)
}

func SetupReviewRoutes(e *echo.Echo, handler *rest.ReviewHandler, g Guards) {
	e.POST("/sellers/:id/reviews/", handler.Create, g.OptionalAuth)
	e.GET("/sellers/:id/reviews/", handler.List)
}

func SetupBuyerRoutes(e *echo.Echo, handler *rest.BuyerHandler, g Guards) {
	buyers := e.Group("/buyers")

	buyers.POST("/register/", handler.Register, g.limited()...)
	buyers.POST("/login/", handler.Login, g.limited()...)
}

func SetupAdminRoutes(e *echo.Echo, handler *rest.AdminHandler, g Guards) {
	admins := e.Group("/admins")

	admins.POST("/login/", handler.Login, g.limited()...)

	admins.GET("/sellers/", handler.ListSellers, g.AuthRequired, g.AdminOnly)
	admins.PATCH("/sellers/:pk/verify/", handler.VerifySeller, g.AuthRequired, g.AdminOnly)
	admins.PATCH("/reviews/:pk/reply/", handler.ReplyReview, g.AuthRequired, g.AdminOnly)
}

func SetupAuthRoutes(e *echo.Echo, handler *rest.AuthHandler, g Guards) {
	e.POST("/auth/logout/", handler.Logout, g.AuthRequired)
	e.POST("/auth/logout-all/", handler.LogoutAll, g.AuthRequired)
}
