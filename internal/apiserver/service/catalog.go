package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
	"github.com/scentory/scentory/pkg/metrics"
	"github.com/scentory/scentory/pkg/trace"
)

// perfumeSortFields is the allow-list for PerfumeQuery.SortBy
var perfumeSortFields = []string{"name", "brand"}

// PerfumeInput holds the fields of a new perfume. Available defaults to true.
type PerfumeInput struct {
	Name          string
	Brand         string
	Concentration database.Concentration
	Season        database.Season
	Available     *bool
}

// PerfumePatch holds the fields to change; nil means unchanged
type PerfumePatch struct {
	Name          *string
	Brand         *string
	Concentration *database.Concentration
	Season        *database.Season
	Available     *bool
}

// PerfumeQuery holds listing filters, sort and page
type PerfumeQuery struct {
	Available     *bool
	Concentration *database.Concentration
	Season        *database.Season
	Brand         string
	SortBy        string
	Order         string
	Limit         int
	Offset        int
}

// CatalogService manages the perfumes owned by each user
type CatalogService struct {
	db      database.Database
	metrics *metrics.Metrics
	logger  *zap.Logger
	tracer  *trace.Builder
}

func NewCatalogService(db database.Database, m *metrics.Metrics, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		db:      db,
		metrics: m,
		logger:  logger.Named("catalog"),
		tracer:  trace.Tracer(cnst.TraceCatalog),
	}
}

func (s *CatalogService) Create(ctx context.Context, ownerID uint, in PerfumeInput) (*database.Perfume, error) {
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	perfume := &database.Perfume{
		Name:          in.Name,
		Brand:         in.Brand,
		Concentration: in.Concentration,
		Season:        in.Season,
		Available:     available,
		UserID:        ownerID,
	}
	if err := s.db.CreatePerfume(ctx, perfume); err != nil {
		return nil, err
	}
	s.metrics.PerfumeMutation("create")
	s.logger.Debug("perfume created", zap.Uint("perfume_id", perfume.ID), zap.Uint("user_id", ownerID))
	return perfume, nil
}

// List returns the owner's perfumes matching q and the filtered total
func (s *CatalogService) List(ctx context.Context, ownerID uint, q PerfumeQuery) ([]*database.Perfume, int64, error) {
	sp := s.tracer.Start(ctx, "catalog.list").WithAttrs(trace.UserID(ownerID))
	defer sp.End()

	filter := database.PerfumeFilter{
		OwnerID:       ownerID,
		Available:     q.Available,
		Concentration: q.Concentration,
		Season:        q.Season,
		Brand:         q.Brand,
	}

	if q.SortBy != "" {
		if !isPerfumeSortField(q.SortBy) {
			return nil, 0, sp.Fail(i18n.ErrInvalidSortField.
				WithParam("Field", q.SortBy).
				WithParam("Allowed", strings.Join(perfumeSortFields, ", ")))
		}
		filter.SortBy = q.SortBy
	}
	switch q.Order {
	case "", "asc":
	case "desc":
		filter.Desc = true
	default:
		return nil, 0, sp.Fail(i18n.ErrInvalidSortOrder.WithParam("Order", q.Order))
	}

	page, err := NewPage(q.Limit, q.Offset)
	if err != nil {
		return nil, 0, sp.Fail(err)
	}
	filter.Page = page

	items, total, err := s.db.ListPerfumes(sp.Ctx, filter)
	if err != nil {
		return nil, 0, sp.Fail(err)
	}
	return items, total, nil
}

func isPerfumeSortField(field string) bool {
	for _, f := range perfumeSortFields {
		if f == field {
			return true
		}
	}
	return false
}

// Get loads a perfume owned by requesterID. Missing perfumes are reported before foreign ones.
func (s *CatalogService) Get(ctx context.Context, id, requesterID uint) (*database.Perfume, error) {
	perfume, err := s.db.GetPerfume(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, i18n.ErrPerfumeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load perfume %d: %w", id, err)
	}
	if perfume.UserID != requesterID {
		return nil, i18n.ErrPerfumeForbidden
	}
	return perfume, nil
}

// ListPurchasesFor pages through every purchase of a perfume the requester owns
func (s *CatalogService) ListPurchasesFor(ctx context.Context, perfumeID, requesterID uint, limit, offset int) ([]*database.Purchase, int64, error) {
	if _, err := s.Get(ctx, perfumeID, requesterID); err != nil {
		return nil, 0, err
	}
	page, err := NewPage(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.db.ListPurchases(ctx, database.PurchaseFilter{PerfumeID: perfumeID, Page: page})
}

// Update applies patch to a perfume the requester owns. The owner never changes.
func (s *CatalogService) Update(ctx context.Context, id, requesterID uint, patch PerfumePatch) (*database.Perfume, error) {
	var perfume *database.Perfume
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		var err error
		perfume, err = s.Get(ctx, id, requesterID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			perfume.Name = *patch.Name
		}
		if patch.Brand != nil {
			perfume.Brand = *patch.Brand
		}
		if patch.Concentration != nil {
			perfume.Concentration = *patch.Concentration
		}
		if patch.Season != nil {
			perfume.Season = *patch.Season
		}
		if patch.Available != nil {
			perfume.Available = *patch.Available
		}
		return s.db.UpdatePerfume(ctx, perfume)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.PerfumeMutation("update")
	return perfume, nil
}

// Delete removes a perfume the requester owns together with its purchases
func (s *CatalogService) Delete(ctx context.Context, id, requesterID uint) error {
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, id, requesterID); err != nil {
			return err
		}
		return s.db.DeletePerfume(ctx, id)
	})
	if err != nil {
		return err
	}
	s.metrics.PerfumeMutation("delete")
	s.logger.Debug("perfume deleted", zap.Uint("perfume_id", id), zap.Uint("user_id", requesterID))
	return nil
}
