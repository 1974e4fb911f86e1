package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Repository defines persistence operations for quotes and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error
	Delete(ctx context.Context, userID, quoteID uuid.UUID) error
	FindForUser(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Quote], error)
	NextNumber(ctx context.Context, userID uuid.UUID) (string, error)
	UpdateStatus(ctx context.Context, quoteID uuid.UUID, status enums.QuoteStatus) error
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ListFilters describe the supported filter knobs for the quote listing.
type ListFilters struct {
	Status *enums.QuoteStatus
	Query  string
}
