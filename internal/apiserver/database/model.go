package database

import (
	"time"

	"github.com/scentory/scentory/internal/common/cnst"
)

// Concentration is the fragrance oil concentration of a perfume
type Concentration string

const (
	ConcentrationEDC    Concentration = "EDC"
	ConcentrationEDT    Concentration = "EDT"
	ConcentrationEDP    Concentration = "EDP"
	ConcentrationParfum Concentration = "PARFUM"
	ConcentrationOther  Concentration = "OTHER"
)

// Valid reports whether c is a known concentration
func (c Concentration) Valid() bool {
	switch c {
	case ConcentrationEDC, ConcentrationEDT, ConcentrationEDP, ConcentrationParfum, ConcentrationOther:
		return true
	}
	return false
}

// Season is the season a perfume is meant for
type Season string

const (
	SeasonSummer Season = "SUMMER"
	SeasonWinter Season = "WINTER"
	SeasonAll    Season = "ALL"
	SeasonOther  Season = "OTHER"
)

// Valid reports whether s is a known season
func (s Season) Valid() bool {
	switch s {
	case SeasonSummer, SeasonWinter, SeasonAll, SeasonOther:
		return true
	}
	return false
}

// User is an account owning perfumes and purchases
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"column:hashed_password;type:varchar(255);not null"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	Role      cnst.Role `json:"role" gorm:"type:varchar(10);not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Perfume is a bottle in a user's collection
type Perfume struct {
	ID            uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string        `json:"name" gorm:"type:varchar(255);not null"`
	Brand         string        `json:"brand" gorm:"type:varchar(255);not null;index"`
	Concentration Concentration `json:"concentration" gorm:"type:varchar(10);not null"`
	Season        Season        `json:"season" gorm:"type:varchar(10);not null"`
	Available     bool          `json:"available" gorm:"not null"`
	UserID        uint          `json:"user_id" gorm:"not null;index"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Purchase is one ledger entry. Date is a calendar day stored as UTC midnight.
type Purchase struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	PerfumeID uint      `json:"perfume_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Price     float64   `json:"price" gorm:"not null"`
	Store     *string   `json:"store" gorm:"type:varchar(255)"`
	ML        int       `json:"ml" gorm:"column:ml;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// PurchaseRank is a purchase joined with its perfume's name and brand
type PurchaseRank struct {
	PerfumeName string
	Brand       string
	Price       float64
	Date        time.Time
}

// SpendingTotals aggregates a set of purchases
type SpendingTotals struct {
	Total float64
	Count int64
}

// Totals are the store-wide counters shown on the admin dashboard
type Totals struct {
	Users       int64
	ActiveUsers int64
	Perfumes    int64
	Purchases   int64
	Amount      float64
}

// UserPerfumeCount pairs a user with the number of perfumes they own
type UserPerfumeCount struct {
	User  *User
	Count int64
}

// UserSpend pairs a user with the sum of their purchases
type UserSpend struct {
	User  *User
	Total float64
}

// PurchaseWithRefs is a purchase with its perfume and purchasing user loaded
type PurchaseWithRefs struct {
	Purchase *Purchase
	Perfume  *Perfume
	User     *User
}
