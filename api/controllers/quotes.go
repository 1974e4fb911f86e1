package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/api/responses"
	"github.com/teklifdesk/teklifdesk-backend/api/validators"
	invoicesvc "github.com/teklifdesk/teklifdesk-backend/internal/invoices"
	quotesvc "github.com/teklifdesk/teklifdesk-backend/internal/quotes"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

type quoteItemRequest struct {
	ProductID  uuid.UUID        `json:"product_id" validate:"required"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UsePackage bool             `json:"use_package,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	Note       string           `json:"note,omitempty"`
}

func (req quoteItemRequest) toItemInput() quotesvc.ItemInput {
	return quotesvc.ItemInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		UsePackage: req.UsePackage,
		UnitPrice:  req.UnitPrice,
		Note:       req.Note,
	}
}

type quoteRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Currency      string             `json:"currency,omitempty"`
	DiscountType  *string            `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	VATRate       decimal.Decimal    `json:"vat_rate"`
	VATIncluded   bool               `json:"vat_included,omitempty"`
	IssueDate     *time.Time         `json:"issue_date,omitempty"`
	ValidUntil    *time.Time         `json:"valid_until,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Items         []quoteItemRequest `json:"items" validate:"required,min=1"`
}

func (req quoteRequest) toInput() (quotesvc.Input, error) {
	input := quotesvc.Input{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		DiscountValue: req.DiscountValue,
		VATRate:       req.VATRate,
		VATIncluded:   req.VATIncluded,
		ValidUntil:    req.ValidUntil,
		Notes:         req.Notes,
	}
	if req.IssueDate != nil {
		input.IssueDate = *req.IssueDate
	}

	if raw := strings.TrimSpace(req.Currency); raw != "" {
		currency, err := enums.ParseCurrency(raw)
		if err != nil {
			return quotesvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		input.Currency = currency
	}
	discountType, err := parseDiscountType(req.DiscountType)
	if err != nil {
		return quotesvc.Input{}, err
	}
	input.DiscountType = discountType

	for _, item := range req.Items {
		input.Items = append(input.Items, item.toItemInput())
	}
	return input, nil
}

func parseDiscountType(raw *string) (*enums.DiscountType, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := enums.ParseDiscountType(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}
	return &parsed, nil
}

// QuoteList returns the caller's quotes, filterable by status and search text.
func QuoteList(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := quotesvc.ListFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 100),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseQuoteStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		result, err := svc.List(r.Context(), userID, filters, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// QuoteGet returns a quote with its line items.
func QuoteGet(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Get(r.Context(), userID, quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// QuoteCreate prices the requested lines and persists a numbered draft.
func QuoteCreate(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// QuoteUpdate reprices and replaces a draft quote.
func QuoteUpdate(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Update(r.Context(), userID, quoteID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// QuoteDelete removes a quote that has not been approved.
func QuoteDelete(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, quoteID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type quoteStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// QuoteChangeStatus moves a quote along its lifecycle.
func QuoteChangeStatus(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target := enums.QuoteStatus(strings.TrimSpace(strings.ToLower(body.Status)))
		quote, err := svc.ChangeStatus(r.Context(), userID, quoteID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

type quotePreviewRequest struct {
	DiscountType  *string            `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	VATRate       decimal.Decimal    `json:"vat_rate"`
	VATIncluded   bool               `json:"vat_included,omitempty"`
	Items         []quoteItemRequest `json:"items" validate:"required,min=1"`
}

// QuotePreview prices the requested lines without persisting anything.
func QuotePreview(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quotePreviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := quotesvc.PreviewInput{
			DiscountValue: body.DiscountValue,
			VATRate:       body.VATRate,
			VATIncluded:   body.VATIncluded,
		}
		discountType, err := parseDiscountType(body.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.DiscountType = discountType
		for _, item := range body.Items {
			input.Items = append(input.Items, item.toItemInput())
		}

		result, err := svc.Preview(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type quoteInvoiceRequest struct {
	IssueDate *time.Time `json:"issue_date,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// QuoteConvertToInvoice creates a sales invoice from an approved quote.
func QuoteConvertToInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteInvoiceRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := invoicesvc.FromQuoteInput{
			DueDate: body.DueDate,
			Notes:   body.Notes,
		}
		if body.IssueDate != nil {
			input.IssueDate = *body.IssueDate
		}

		invoice, err := svc.CreateFromQuote(r.Context(), userID, quoteID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}
