package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/api/responses"
	"github.com/teklifdesk/teklifdesk-backend/api/validators"
	productsvc "github.com/teklifdesk/teklifdesk-backend/internal/products"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// nullable distinguishes an absent JSON field from an explicit null, which
// update endpoints use to clear optional columns.
type nullable[T any] struct {
	set   bool
	value *T
}

func (n *nullable[T]) UnmarshalJSON(data []byte) error {
	n.set = true
	if string(data) == "null" {
		n.value = nil
		return nil
	}
	return json.Unmarshal(data, &n.value)
}

func (n nullable[T]) ptr() **T {
	if !n.set {
		return nil
	}
	value := n.value
	return &value
}

// ProductList returns the caller's product catalogue, filtered and paginated.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 100),
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.Category = &category
		}

		result, err := svc.ListProducts(r.Context(), userID, filters, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductGet returns a single product by id.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Code          string           `json:"code" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Category      *string          `json:"category,omitempty"`
	Unit          string           `json:"unit" validate:"required"`
	Currency      string           `json:"currency,omitempty"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	PackageKG     *decimal.Decimal `json:"package_kg,omitempty"`
	PackageM2     *decimal.Decimal `json:"package_m2,omitempty"`
	PackageLength *decimal.Decimal `json:"package_length,omitempty"`
	PackageCount  *int             `json:"package_count,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Image         *string          `json:"image,omitempty"`
}

func (req createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	unit, err := enums.ParseUnit(strings.TrimSpace(req.Unit))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	currency := enums.CurrencyTL
	if raw := strings.TrimSpace(req.Currency); raw != "" {
		currency, err = enums.ParseCurrency(raw)
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
	}

	return productsvc.CreateProductInput{
		Code:          req.Code,
		Name:          req.Name,
		Category:      req.Category,
		Unit:          unit,
		Currency:      currency,
		UnitPrice:     req.UnitPrice,
		PackageKG:     req.PackageKG,
		PackageM2:     req.PackageM2,
		PackageLength: req.PackageLength,
		PackageCount:  req.PackageCount,
		Description:   req.Description,
		Image:         req.Image,
	}, nil
}

// ProductCreate adds a product to the caller's catalogue.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Code          *string                   `json:"code,omitempty"`
	Name          *string                   `json:"name,omitempty"`
	Category      nullable[string]          `json:"category,omitempty"`
	Unit          *string                   `json:"unit,omitempty"`
	Currency      *string                   `json:"currency,omitempty"`
	UnitPrice     *decimal.Decimal          `json:"unit_price,omitempty"`
	PackageKG     nullable[decimal.Decimal] `json:"package_kg,omitempty"`
	PackageM2     nullable[decimal.Decimal] `json:"package_m2,omitempty"`
	PackageLength nullable[decimal.Decimal] `json:"package_length,omitempty"`
	PackageCount  nullable[int]             `json:"package_count,omitempty"`
	Description   nullable[string]          `json:"description,omitempty"`
	Image         nullable[string]          `json:"image,omitempty"`
}

func (req updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Code:          req.Code,
		Name:          req.Name,
		Category:      req.Category.ptr(),
		UnitPrice:     req.UnitPrice,
		PackageKG:     req.PackageKG.ptr(),
		PackageM2:     req.PackageM2.ptr(),
		PackageLength: req.PackageLength.ptr(),
		PackageCount:  req.PackageCount.ptr(),
		Description:   req.Description.ptr(),
		Image:         req.Image.ptr(),
	}

	if req.Unit != nil {
		unit, err := enums.ParseUnit(strings.TrimSpace(*req.Unit))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}
	if req.Currency != nil {
		currency, err := enums.ParseCurrency(strings.TrimSpace(*req.Currency))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		input.Currency = &currency
	}

	return input, nil
}

// ProductUpdate applies a partial update to a product.
func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), userID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product from the caller's catalogue.
func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), userID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CategoryList returns the caller's product categories.
func CategoryList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.ListCategories(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CategoryCreate adds a product category.
func CategoryCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), userID, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// CategoryDelete removes a category that no product references.
func CategoryDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), userID, categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
