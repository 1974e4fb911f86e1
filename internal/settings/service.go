// Package setting stores per-user preferences as key/value pairs,
// company letterhead fields and quote defaults among them.
package setting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

const (
	maxKeyLength   = 100
	maxValueLength = 10000
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the settings surface used by the controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (map[string]string, error)
	Update(ctx context.Context, userID uuid.UUID, values map[string]string) (map[string]string, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a settings service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	rows, err := s.repo.FindAll(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list settings")
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Update merges the provided pairs into the user's settings. An empty
// value removes the key instead of storing a blank.
func (s *service) Update(ctx context.Context, userID uuid.UUID, values map[string]string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one setting is required")
	}

	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting keys cannot be empty")
		}
		if len(key) > maxKeyLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("setting key %q exceeds %d characters", key, maxKeyLength))
		}
		if len(value) > maxValueLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("setting %q value exceeds %d characters", key, maxValueLength))
		}
		normalized[key] = value
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for key, value := range normalized {
			if value == "" {
				if err := repo.Delete(ctx, userID, key); err != nil {
					return err
				}
				continue
			}
			if err := repo.Upsert(ctx, userID, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update settings")
	}

	return s.Get(ctx, userID)
}
