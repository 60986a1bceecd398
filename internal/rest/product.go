package rest

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"verifiedMarket/business/access"
	"verifiedMarket/business/product"
	"verifiedMarket/domain"
	"verifiedMarket/internal/middleware"
	"verifiedMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type ProductService interface {
	UploadProduct(ctx context.Context, actor access.Actor, input product.UploadInput) (domain.Product, error)
	ListSellerProducts(ctx context.Context, sellerID uint) ([]domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		timeout:        defaultTimeout,
	}
}

// priceValue takes the price as a JSON number or string. Whatever was sent
// is kept as text and judged by the service.
type priceValue string

func (p *priceValue) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*p = ""
		return nil
	}
	*p = priceValue(strings.Trim(raw, `"`))
	return nil
}

type UploadProductRequest struct {
	Name        string     `json:"name" form:"name"`
	Price       priceValue `json:"price" form:"price"`
	Description string     `json:"description" form:"description"`
	Image       string     `json:"image" form:"-"`
}

// Upload accepts multipart form data with an optional image file, or JSON
// with an optional image reference.
func (h *ProductHandler) Upload(c echo.Context) error {
	var req UploadProductRequest

	// a body that does not bind still goes through the service so that an
	// unapproved seller is told so before anything about the payload
	if err := c.Bind(&req); err != nil {
		logger.Debug("product upload body not bound", "error", err)
		req = UploadProductRequest{}
	}

	input := product.UploadInput{
		Name:        req.Name,
		Price:       string(req.Price),
		Description: req.Description,
		ImageRef:    req.Image,
	}

	if isMultipart(c) {
		input.ImageRef = c.FormValue("image")

		fileHeader, err := c.FormFile("image")
		switch {
		case err == nil:
			file, err := fileHeader.Open()
			if err != nil {
				return errors.Wrap(err, "open uploaded image")
			}
			defer file.Close()

			input.ImageRef = ""
			input.Image = &product.ImageUpload{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get(echo.HeaderContentType),
				Content:     file,
			}
		case !errors.Is(err, http.ErrMissingFile):
			logger.Debug("image part not readable", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.productService.UploadProduct(ctx, middleware.ActorFrom(c), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"product": created,
	})
}

func (h *ProductHandler) ListBySeller(c echo.Context) error {
	id, err := pathID(c, "id", product.MsgSellerNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListSellerProducts(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
