package service

import (
	"context"
	"time"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
	"github.com/scentory/scentory/pkg/trace"
)

const (
	DefaultMostExpensive = 5
	DefaultTopUsers      = 3
	MaxTopUsers          = 10
)

type SpendingSummary struct {
	TotalSpent     float64
	TotalPurchases int64
	AveragePrice   float64
}

type RankedPurchase struct {
	Rank        int
	PerfumeName string
	Brand       string
	Price       float64
	Date        time.Time
}

type Dashboard struct {
	TotalUsers     int64
	TotalPerfumes  int64
	TotalPurchases int64
	TotalAmount    float64
	ActiveUsers    int64
}

// TopUsers holds the admin rankings. A nil slice means the ranking had no rows.
type TopUsers struct {
	MostPerfumes            []*database.UserPerfumeCount
	MostExpensivePurchase   []*database.PurchaseWithRefs
	MostExpensiveCollection []*database.UserSpend
}

// StatsService computes read-only rollups
type StatsService struct {
	db     database.Database
	tracer *trace.Builder
}

func NewStatsService(db database.Database) *StatsService {
	return &StatsService{db: db, tracer: trace.Tracer(cnst.TraceStats)}
}

// SpendingSummary totals the user's purchases in the optional inclusive date range
func (s *StatsService) SpendingSummary(ctx context.Context, userID uint, start, end *time.Time) (*SpendingSummary, error) {
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}
	sp := s.tracer.Start(ctx, "stats.spending").WithAttrs(trace.UserID(userID))
	defer sp.End()

	totals, err := s.db.SumPurchases(sp.Ctx, userID, dateOnlyPtr(start), dateOnlyPtr(end))
	if err != nil {
		return nil, sp.Fail(err)
	}
	summary := &SpendingSummary{TotalSpent: totals.Total, TotalPurchases: totals.Count}
	if totals.Count > 0 {
		summary.AveragePrice = round2(totals.Total / float64(totals.Count))
	}
	return summary, nil
}

// MostExpensive ranks the user's n priciest purchases starting at 1
func (s *StatsService) MostExpensive(ctx context.Context, userID uint, n int) ([]*RankedPurchase, error) {
	if n < 1 {
		return nil, i18n.ErrValidationFailed.WithParam("Detail", "num must be at least 1")
	}
	rows, err := s.db.MostExpensivePurchases(ctx, userID, n)
	if err != nil {
		return nil, err
	}
	out := make([]*RankedPurchase, 0, len(rows))
	for i, r := range rows {
		out = append(out, &RankedPurchase{
			Rank:        i + 1,
			PerfumeName: r.PerfumeName,
			Brand:       r.Brand,
			Price:       r.Price,
			Date:        DateOnly(r.Date),
		})
	}
	return out, nil
}

func (s *StatsService) AdminDashboard(ctx context.Context) (*Dashboard, error) {
	t, err := s.db.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TotalUsers:     t.Users,
		TotalPerfumes:  t.Perfumes,
		TotalPurchases: t.Purchases,
		TotalAmount:    round2(t.Amount),
		ActiveUsers:    t.ActiveUsers,
	}, nil
}

// TopUsers computes the three admin rankings, limit entries each
func (s *StatsService) TopUsers(ctx context.Context, limit int) (*TopUsers, error) {
	if limit < 1 || limit > MaxTopUsers {
		return nil, i18n.ErrInvalidRange.WithParam("Field", "limit").WithParam("Min", 1).WithParam("Max", MaxTopUsers)
	}
	sp := s.tracer.Start(ctx, "stats.top_users")
	defer sp.End()

	var (
		out TopUsers
		err error
	)
	if out.MostPerfumes, err = s.db.TopUsersByPerfumeCount(sp.Ctx, limit); err != nil {
		return nil, sp.Fail(err)
	}
	if out.MostExpensivePurchase, err = s.db.TopPurchasesByPrice(sp.Ctx, limit); err != nil {
		return nil, sp.Fail(err)
	}
	if out.MostExpensiveCollection, err = s.db.TopUsersBySpend(sp.Ctx, limit); err != nil {
		return nil, sp.Fail(err)
	}

	if len(out.MostPerfumes) == 0 {
		out.MostPerfumes = nil
	}
	if len(out.MostExpensivePurchase) == 0 {
		out.MostExpensivePurchase = nil
	}
	if len(out.MostExpensiveCollection) == 0 {
		out.MostExpensiveCollection = nil
	}
	return &out, nil
}
