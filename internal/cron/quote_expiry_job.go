package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
)

type quoteExpirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// QuoteExpiryJobParams configure the quote expiry scheduler.
type QuoteExpiryJobParams struct {
	Logger *logger.Logger
	Quotes quoteExpirer
}

// NewQuoteExpiryJob builds the cron job that expires pending quotes
// past their validity date.
func NewQuoteExpiryJob(params QuoteExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quote service required")
	}
	return &quoteExpiryJob{
		logg:   params.Logger,
		quotes: params.Quotes,
		now:    time.Now,
	}, nil
}

type quoteExpiryJob struct {
	logg   *logger.Logger
	quotes quoteExpirer
	now    func() time.Time
}

func (j *quoteExpiryJob) Name() string { return "quote-expiry" }

func (j *quoteExpiryJob) Run(ctx context.Context) error {
	count, err := j.quotes.ExpireOverdue(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire overdue quotes: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "quote expiry loop complete")
	return nil
}
