package database

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up row does not exist
var ErrNotFound = errors.New("record not found")

// Page selects a window of an ordered result
type Page struct {
	Limit  int
	Offset int
}

// PerfumeFilter narrows a perfume listing to one owner
type PerfumeFilter struct {
	OwnerID       uint
	Available     *bool
	Concentration *Concentration
	Season        *Season
	// Brand matches case-insensitively as a substring
	Brand string
	// SortBy is a column name already checked against an allow-list; empty sorts by id
	SortBy string
	Desc   bool
	Page   Page
}

// PurchaseFilter narrows a purchase listing. Zero ids mean "any".
type PurchaseFilter struct {
	UserID    uint
	PerfumeID uint
	StartDate *time.Time
	EndDate   *time.Time
	MinPrice  *float64
	MaxPrice  *float64
	Page      Page
}

// Database defines the methods for database operations.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn in a transaction carried by the context passed to fn.
	// Nested calls join the outer transaction.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, page Page) ([]*User, int64, error)
	// UpdateUserAccess persists role and active flag.
	UpdateUserAccess(ctx context.Context, user *User) error
	// DeleteUser removes the user with their perfumes and every purchase touching them.
	DeleteUser(ctx context.Context, id uint) error

	CreatePerfume(ctx context.Context, perfume *Perfume) error
	GetPerfume(ctx context.Context, id uint) (*Perfume, error)
	ListPerfumes(ctx context.Context, filter PerfumeFilter) ([]*Perfume, int64, error)
	UpdatePerfume(ctx context.Context, perfume *Perfume) error
	// DeletePerfume removes the perfume and its purchases.
	DeletePerfume(ctx context.Context, id uint) error

	CreatePurchase(ctx context.Context, purchase *Purchase) error
	GetPurchase(ctx context.Context, id uint) (*Purchase, error)
	// ListPurchases orders by date desc, id desc.
	ListPurchases(ctx context.Context, filter PurchaseFilter) ([]*Purchase, int64, error)
	DeletePurchase(ctx context.Context, id uint) error

	SumPurchases(ctx context.Context, userID uint, start, end *time.Time) (*SpendingTotals, error)
	MostExpensivePurchases(ctx context.Context, userID uint, n int) ([]*PurchaseRank, error)
	Totals(ctx context.Context) (*Totals, error)
	TopUsersByPerfumeCount(ctx context.Context, limit int) ([]*UserPerfumeCount, error)
	TopPurchasesByPrice(ctx context.Context, limit int) ([]*PurchaseWithRefs, error)
	TopUsersBySpend(ctx context.Context, limit int) ([]*UserSpend, error)
}
