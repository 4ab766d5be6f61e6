package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

var imageFields = []string{"image1", "image2", "image3", "image4"}

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Add reads a multipart form: text fields, sizes as a JSON array string and
// up to four files named image1..image4.
func (h *ProductHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.MultipartForm()
	if err != nil {
		return apperr.Validation("Expected a multipart form")
	}

	price, err := cast.ToFloat64E(strings.TrimSpace(c.FormValue("price")))
	if err != nil {
		return apperr.Validation("price must be a number")
	}

	var sizes []string
	if raw := strings.TrimSpace(c.FormValue("sizes")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
			return apperr.Validation("sizes must be a JSON array of strings")
		}
	}

	req := dto.AddProductRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Category:    c.FormValue("category"),
		SubCategory: c.FormValue("subCategory"),
		Sizes:       sizes,
		BestSeller:  cast.ToBool(c.FormValue("bestSeller")),
		Featured:    cast.ToBool(c.FormValue("featured")),
		NewArrival:  cast.ToBool(c.FormValue("newArrival")),
	}

	for _, field := range imageFields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		req.Images = append(req.Images, dto.UploadFile{
			Filename: fmt.Sprintf("%s-%s", field, fh.Filename),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	product, err := h.productService.Add(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product added",
		"product": product,
		"images":  product.Images,
	})
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "products": products})
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": product})
}

func (h *ProductHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductIDRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	product, err := h.productService.Remove(ctx, req.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Product removed", "product": product})
}
