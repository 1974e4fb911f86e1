package invoice

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Repository defines persistence operations for invoices and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
	FindForUser(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error)
	FindByQuote(ctx context.Context, userID, quoteID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Invoice], error)
	NextNumber(ctx context.Context, userID uuid.UUID, invoiceType enums.InvoiceType) (string, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]models.Payment, error)
}

// ListFilters describe the supported filter knobs for the invoice listing.
type ListFilters struct {
	Type          *enums.InvoiceType
	PaymentStatus *enums.PaymentStatus
	Query         string
}
