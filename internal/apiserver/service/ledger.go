package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
	"github.com/scentory/scentory/pkg/metrics"
	"github.com/scentory/scentory/pkg/trace"
)

// DefaultML is the bottle size recorded when a purchase omits it
const DefaultML = 100

// PurchaseInput holds the fields of a new purchase
type PurchaseInput struct {
	PerfumeID uint
	Date      time.Time
	Price     float64
	Store     *string
	ML        int
}

// PurchaseQuery holds ledger listing filters and page
type PurchaseQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	MinPrice  *float64
	MaxPrice  *float64
	Limit     int
	Offset    int
}

// LedgerService records and queries purchases
type LedgerService struct {
	db               database.Database
	enforceOwnership bool
	metrics          *metrics.Metrics
	logger           *zap.Logger
	tracer           *trace.Builder
}

// NewLedgerService creates the ledger. With enforceOwnership set, purchases
// may only reference, and be read or deleted by, the owner.
func NewLedgerService(db database.Database, enforceOwnership bool, m *metrics.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		db:               db,
		enforceOwnership: enforceOwnership,
		metrics:          m,
		logger:           logger.Named("ledger"),
		tracer:           trace.Tracer(cnst.TraceLedger),
	}
}

func (s *LedgerService) Create(ctx context.Context, userID uint, in PurchaseInput) (*database.Purchase, error) {
	sp := s.tracer.Start(ctx, "ledger.create").WithAttrs(
		trace.UserID(userID),
		attribute.Int("perfume_id", int(in.PerfumeID)),
	)
	defer sp.End()

	if in.Price < 0 {
		return nil, sp.Fail(i18n.ErrNegativePrice)
	}
	ml := in.ML
	if ml == 0 {
		ml = DefaultML
	}
	purchase := &database.Purchase{
		PerfumeID: in.PerfumeID,
		UserID:    userID,
		Date:      DateOnly(in.Date),
		Price:     in.Price,
		Store:     in.Store,
		ML:        ml,
	}

	err := s.db.Transaction(sp.Ctx, func(ctx context.Context) error {
		perfume, err := s.db.GetPerfume(ctx, in.PerfumeID)
		if errors.Is(err, database.ErrNotFound) {
			return i18n.ErrPerfumeNotFound
		}
		if err != nil {
			return err
		}
		if s.enforceOwnership && perfume.UserID != userID {
			return i18n.ErrPerfumeForbidden
		}
		return s.db.CreatePurchase(ctx, purchase)
	})
	if err != nil {
		return nil, sp.Fail(err)
	}

	s.metrics.PurchaseRecorded(purchase.Price)
	s.logger.Debug("purchase recorded", zap.Uint("purchase_id", purchase.ID), zap.Uint("user_id", userID))
	return purchase, nil
}

// List returns the requester's purchases matching q, newest first
func (s *LedgerService) List(ctx context.Context, userID uint, q PurchaseQuery) ([]*database.Purchase, int64, error) {
	if err := checkDateRange(q.StartDate, q.EndDate); err != nil {
		return nil, 0, err
	}
	if (q.MinPrice != nil && *q.MinPrice < 0) || (q.MaxPrice != nil && *q.MaxPrice < 0) {
		return nil, 0, i18n.ErrNegativePrice
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, 0, i18n.ErrInvalidPriceRange
	}
	page, err := NewPage(q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}

	return s.db.ListPurchases(ctx, database.PurchaseFilter{
		UserID:    userID,
		StartDate: dateOnlyPtr(q.StartDate),
		EndDate:   dateOnlyPtr(q.EndDate),
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		Page:      page,
	})
}

func (s *LedgerService) Get(ctx context.Context, id, requesterID uint) (*database.Purchase, error) {
	purchase, err := s.db.GetPurchase(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, i18n.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load purchase %d: %w", id, err)
	}
	if s.enforceOwnership && purchase.UserID != requesterID {
		return nil, i18n.ErrPurchaseForbidden
	}
	return purchase, nil
}

func (s *LedgerService) Delete(ctx context.Context, id, requesterID uint) error {
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, id, requesterID); err != nil {
			return err
		}
		if err := s.db.DeletePurchase(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return i18n.ErrPurchaseNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.PurchaseDeleted()
	return nil
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOnly(*t)
	return &d
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && DateOnly(*start).After(DateOnly(*end)) {
		return i18n.ErrInvalidDateRange
	}
	return nil
}
