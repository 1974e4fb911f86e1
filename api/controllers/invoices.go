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
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

type invoiceRequest struct {
	Type             string          `json:"type" validate:"required"`
	CounterpartyID   *uuid.UUID      `json:"counterparty_id,omitempty"`
	CounterpartyName string          `json:"counterparty_name,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	VATAmount        decimal.Decimal `json:"vat_amount"`
	IssueDate        *time.Time      `json:"issue_date,omitempty"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
}

func (req invoiceRequest) toInput() (invoicesvc.Input, error) {
	invoiceType, err := enums.ParseInvoiceType(strings.TrimSpace(req.Type))
	if err != nil {
		return invoicesvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice type")
	}

	input := invoicesvc.Input{
		Type:             invoiceType,
		CounterpartyID:   req.CounterpartyID,
		CounterpartyName: req.CounterpartyName,
		Subtotal:         req.Subtotal,
		DiscountAmount:   req.DiscountAmount,
		VATAmount:        req.VATAmount,
		DueDate:          req.DueDate,
		Notes:            req.Notes,
	}
	if req.IssueDate != nil {
		input.IssueDate = *req.IssueDate
	}
	if raw := strings.TrimSpace(req.Currency); raw != "" {
		currency, err := enums.ParseCurrency(raw)
		if err != nil {
			return invoicesvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		input.Currency = currency
	}
	return input, nil
}

// InvoiceList returns the caller's invoices, filterable by type and payment state.
func InvoiceList(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := invoicesvc.ListFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 100),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			invoiceType, err := enums.ParseInvoiceType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice type"))
				return
			}
			filters.Type = &invoiceType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
			status, err := enums.ParsePaymentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
				return
			}
			filters.PaymentStatus = &status
		}

		result, err := svc.List(r.Context(), userID, filters, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InvoiceGet returns a single invoice.
func InvoiceGet(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoiceID, err := pathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Get(r.Context(), userID, invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoice)
	}
}

// InvoiceCreate records a standalone sales or purchase invoice.
func InvoiceCreate(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body invoiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoiceDelete removes an invoice that has no recorded payments.
func InvoiceDelete(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoiceID, err := pathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, invoiceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type paymentRequest struct {
	AccountID uuid.UUID       `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	Note      *string         `json:"note,omitempty"`
}

// InvoiceRecordPayment applies a payment against the invoice and moves the
// linked account balance.
func InvoiceRecordPayment(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoiceID, err := pathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := invoicesvc.PaymentInput{
			AccountID: body.AccountID,
			Amount:    body.Amount,
			Note:      body.Note,
		}
		if body.PaidAt != nil {
			input.PaidAt = *body.PaidAt
		}

		invoice, err := svc.RecordPayment(r.Context(), userID, invoiceID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoiceListPayments returns the payments recorded against an invoice.
func InvoiceListPayments(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoiceID, err := pathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payments, err := svc.ListPayments(r.Context(), userID, invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payments)
	}
}
