package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/api/responses"
	"github.com/teklifdesk/teklifdesk-backend/api/validators"
	accountsvc "github.com/teklifdesk/teklifdesk-backend/internal/accounts"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
)

type accountRequest struct {
	Name           string           `json:"name" validate:"required"`
	Type           string           `json:"type" validate:"required"`
	Currency       string           `json:"currency,omitempty"`
	IBAN           *string          `json:"iban,omitempty"`
	BankName       *string          `json:"bank_name,omitempty"`
	AccountNumber  *string          `json:"account_number,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

func (req accountRequest) toInput() (accountsvc.Input, error) {
	accountType, err := enums.ParseAccountType(strings.TrimSpace(req.Type))
	if err != nil {
		return accountsvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account type")
	}

	currency := enums.CurrencyTL
	if raw := strings.TrimSpace(req.Currency); raw != "" {
		currency, err = enums.ParseCurrency(raw)
		if err != nil {
			return accountsvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
	}

	return accountsvc.Input{
		Name:           req.Name,
		Type:           accountType,
		Currency:       currency,
		IBAN:           req.IBAN,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		OpeningBalance: req.OpeningBalance,
	}, nil
}

// AccountList returns every cash and bank account for the caller.
func AccountList(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accounts, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, accounts)
	}
}

// AccountGet returns a single account with its running balance.
func AccountGet(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		accountID, err := pathUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Get(r.Context(), userID, accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

// AccountCreate opens a cash or bank account, optionally seeded with a balance.
func AccountCreate(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, account)
	}
}

// AccountUpdate edits account metadata. The balance only moves through payments.
func AccountUpdate(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		accountID, err := pathUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Update(r.Context(), userID, accountID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

// AccountDelete removes an account once its balance is zero.
func AccountDelete(svc accountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		accountID, err := pathUUID(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, accountID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
