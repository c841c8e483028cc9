package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements Database on any gorm dialect
type Store struct {
	db *gorm.DB
}

func newStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&User{}, &Perfume{}, &Purchase{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset)
	}
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *Store) ListUsers(ctx context.Context, page Page) ([]*User, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []*User
	err := s.conn(ctx).Order("id ASC").Scopes(paginate(page)).Find(&users).Error
	return users, total, err
}

func (s *Store) UpdateUserAccess(ctx context.Context, user *User) error {
	res := s.conn(ctx).Model(user).Select("role", "is_active", "updated_at").Updates(user)
	if res.Error != nil {
		return fmt.Errorf("update user %d: %w", user.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		owned := db.Session(&gorm.Session{NewDB: true}).Model(&Perfume{}).Select("id").Where("user_id = ?", id)
		if err := db.Where("user_id = ? OR perfume_id IN (?)", id, owned).Delete(&Purchase{}).Error; err != nil {
			return fmt.Errorf("delete purchases of user %d: %w", id, err)
		}
		if err := s.conn(ctx).Where("user_id = ?", id).Delete(&Perfume{}).Error; err != nil {
			return fmt.Errorf("delete perfumes of user %d: %w", id, err)
		}
		res := s.conn(ctx).Delete(&User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Perfumes

func (s *Store) CreatePerfume(ctx context.Context, perfume *Perfume) error {
	if err := s.conn(ctx).Create(perfume).Error; err != nil {
		return fmt.Errorf("create perfume: %w", err)
	}
	return nil
}

func (s *Store) GetPerfume(ctx context.Context, id uint) (*Perfume, error) {
	var perfume Perfume
	if err := s.conn(ctx).First(&perfume, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &perfume, nil
}

func perfumeFilterScope(f PerfumeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", f.OwnerID)
		if f.Available != nil {
			db = db.Where("available = ?", *f.Available)
		}
		if f.Concentration != nil {
			db = db.Where("concentration = ?", *f.Concentration)
		}
		if f.Season != nil {
			db = db.Where("season = ?", *f.Season)
		}
		if f.Brand != "" {
			db = db.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(f.Brand)+"%")
		}
		return db
	}
}

func (s *Store) ListPerfumes(ctx context.Context, f PerfumeFilter) ([]*Perfume, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&Perfume{}).Scopes(perfumeFilterScope(f)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count perfumes: %w", err)
	}

	q := s.conn(ctx).Scopes(perfumeFilterScope(f))
	if f.SortBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: f.SortBy}, Desc: f.Desc})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	var perfumes []*Perfume
	if err := q.Scopes(paginate(f.Page)).Find(&perfumes).Error; err != nil {
		return nil, 0, fmt.Errorf("list perfumes: %w", err)
	}
	return perfumes, total, nil
}

func (s *Store) UpdatePerfume(ctx context.Context, perfume *Perfume) error {
	res := s.conn(ctx).Model(perfume).
		Select("name", "brand", "concentration", "season", "available", "updated_at").
		Updates(perfume)
	if res.Error != nil {
		return fmt.Errorf("update perfume %d: %w", perfume.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeletePerfume(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.conn(ctx).Where("perfume_id = ?", id).Delete(&Purchase{}).Error; err != nil {
			return fmt.Errorf("delete purchases of perfume %d: %w", id, err)
		}
		res := s.conn(ctx).Delete(&Perfume{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete perfume %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Purchases

func (s *Store) CreatePurchase(ctx context.Context, purchase *Purchase) error {
	if err := s.conn(ctx).Create(purchase).Error; err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

func (s *Store) GetPurchase(ctx context.Context, id uint) (*Purchase, error) {
	var purchase Purchase
	if err := s.conn(ctx).First(&purchase, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &purchase, nil
}

func purchaseFilterScope(f PurchaseFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != 0 {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.PerfumeID != 0 {
			db = db.Where("perfume_id = ?", f.PerfumeID)
		}
		return dateRangeScope(f.StartDate, f.EndDate)(db).Scopes(priceRangeScope(f.MinPrice, f.MaxPrice))
	}
}

func dateRangeScope(start, end *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("date >= ?", *start)
		}
		if end != nil {
			db = db.Where("date <= ?", *end)
		}
		return db
	}
}

func priceRangeScope(min, max *float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if min != nil {
			db = db.Where("price >= ?", *min)
		}
		if max != nil {
			db = db.Where("price <= ?", *max)
		}
		return db
	}
}

func (s *Store) ListPurchases(ctx context.Context, f PurchaseFilter) ([]*Purchase, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&Purchase{}).Scopes(purchaseFilterScope(f)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	var purchases []*Purchase
	err := s.conn(ctx).Scopes(purchaseFilterScope(f)).
		Order("date DESC").Order("id DESC").
		Scopes(paginate(f.Page)).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, total, nil
}

func (s *Store) DeletePurchase(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&Purchase{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete purchase %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Aggregates

func (s *Store) SumPurchases(ctx context.Context, userID uint, start, end *time.Time) (*SpendingTotals, error) {
	var totals SpendingTotals
	err := s.conn(ctx).Model(&Purchase{}).
		Select("COALESCE(SUM(price), 0) AS total, COUNT(id) AS count").
		Where("user_id = ?", userID).
		Scopes(dateRangeScope(start, end)).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum purchases of user %d: %w", userID, err)
	}
	return &totals, nil
}

func (s *Store) MostExpensivePurchases(ctx context.Context, userID uint, n int) ([]*PurchaseRank, error) {
	var rows []*PurchaseRank
	err := s.conn(ctx).Model(&Purchase{}).
		Select("perfumes.name AS perfume_name, perfumes.brand AS brand, purchases.price AS price, purchases.date AS date").
		Joins("JOIN perfumes ON perfumes.id = purchases.perfume_id").
		Where("purchases.user_id = ?", userID).
		Order("purchases.price DESC").Order("purchases.id ASC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank purchases of user %d: %w", userID, err)
	}
	return rows, nil
}

func (s *Store) Totals(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.conn(ctx).Model(&User{}).Count(&t.Users).Error; err != nil {
		return nil, err
	}
	if err := s.conn(ctx).Model(&User{}).Where("is_active = ?", true).Count(&t.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := s.conn(ctx).Model(&Perfume{}).Count(&t.Perfumes).Error; err != nil {
		return nil, err
	}
	if err := s.conn(ctx).Model(&Purchase{}).Count(&t.Purchases).Error; err != nil {
		return nil, err
	}
	if err := s.conn(ctx).Model(&Purchase{}).Select("COALESCE(SUM(price), 0)").Scan(&t.Amount).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// usersByID loads the given users keyed by id
func (s *Store) usersByID(ctx context.Context, ids []uint) (map[uint]*User, error) {
	out := make(map[uint]*User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*User
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *Store) TopUsersByPerfumeCount(ctx context.Context, limit int) ([]*UserPerfumeCount, error) {
	var rows []struct {
		UserID       uint
		PerfumeCount int64
	}
	err := s.conn(ctx).Model(&Perfume{}).
		Select("user_id, COUNT(id) AS perfume_count").
		Group("user_id").
		Order("perfume_count DESC").Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank users by perfumes: %w", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*UserPerfumeCount, 0, len(rows))
	for _, r := range rows {
		if u, ok := users[r.UserID]; ok {
			out = append(out, &UserPerfumeCount{User: u, Count: r.PerfumeCount})
		}
	}
	return out, nil
}

func (s *Store) TopUsersBySpend(ctx context.Context, limit int) ([]*UserSpend, error) {
	var rows []struct {
		UserID     uint
		TotalSpent float64
	}
	err := s.conn(ctx).Model(&Purchase{}).
		Select("user_id, SUM(price) AS total_spent").
		Group("user_id").
		Order("total_spent DESC").Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank users by spend: %w", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*UserSpend, 0, len(rows))
	for _, r := range rows {
		if u, ok := users[r.UserID]; ok {
			out = append(out, &UserSpend{User: u, Total: r.TotalSpent})
		}
	}
	return out, nil
}

func (s *Store) TopPurchasesByPrice(ctx context.Context, limit int) ([]*PurchaseWithRefs, error) {
	var purchases []*Purchase
	err := s.conn(ctx).Order("price DESC").Order("id ASC").Limit(limit).Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("rank purchases by price: %w", err)
	}
	if len(purchases) == 0 {
		return nil, nil
	}

	perfumeIDs := make([]uint, 0, len(purchases))
	userIDs := make([]uint, 0, len(purchases))
	for _, p := range purchases {
		perfumeIDs = append(perfumeIDs, p.PerfumeID)
		userIDs = append(userIDs, p.UserID)
	}

	var perfumes []*Perfume
	if err := s.conn(ctx).Where("id IN ?", perfumeIDs).Find(&perfumes).Error; err != nil {
		return nil, fmt.Errorf("load perfumes: %w", err)
	}
	perfumeByID := make(map[uint]*Perfume, len(perfumes))
	for _, p := range perfumes {
		perfumeByID[p.ID] = p
	}
	users, err := s.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*PurchaseWithRefs, 0, len(purchases))
	for _, p := range purchases {
		perfume, okP := perfumeByID[p.PerfumeID]
		user, okU := users[p.UserID]
		if !okP || !okU {
			continue
		}
		out = append(out, &PurchaseWithRefs{Purchase: p, Perfume: perfume, User: user})
	}
	return out, nil
}
