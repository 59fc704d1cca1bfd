package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

// bookingSweeper is the slice of the bookings repository the sweep needs.
type bookingSweeper interface {
	CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error)
	StartElapsed(ctx context.Context, now time.Time) (int64, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

// BookingSweepJobParams configure the booking lifecycle sweep.
type BookingSweepJobParams struct {
	Logger     *logger.Logger
	Bookings   bookingSweeper
	PendingTTL time.Duration
}

type bookingSweepJob struct {
	logg       *logger.Logger
	bookings   bookingSweeper
	pendingTTL time.Duration
	now        func() time.Time
}

// NewBookingSweepJob builds the job that advances elapsed bookings and
// expires pending ones nobody confirmed.
func NewBookingSweepJob(params BookingSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	pendingTTL := params.PendingTTL
	if pendingTTL <= 0 {
		pendingTTL = 72 * time.Hour
	}
	return &bookingSweepJob{
		logg:       params.Logger,
		bookings:   params.Bookings,
		pendingTTL: pendingTTL,
		now:        time.Now,
	}, nil
}

func (j *bookingSweepJob) Name() string { return "booking-sweep" }

func (j *bookingSweepJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	cancelled, err := j.bookings.CancelStalePending(ctx, now.Add(-j.pendingTTL))
	if err != nil {
		errs = append(errs, fmt.Errorf("expire stale pending bookings: %w", err))
	}

	started, err := j.bookings.StartElapsed(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("start elapsed bookings: %w", err))
	}

	completed, err := j.bookings.CompleteElapsed(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("complete elapsed bookings: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cancelled": cancelled,
		"started":   started,
		"completed": completed,
	})
	j.logg.Info(logCtx, "booking sweep complete")
	return multierr.Combine(errs...)
}
