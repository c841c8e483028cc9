package dto

import "time"

// CreatePurchaseRequest is the body of POST /purchases. A zero price is a
// valid purchase; a missing one is rejected.
type CreatePurchaseRequest struct {
	PerfumeID uint     `json:"perfume_id" binding:"required"`
	Date      *Date    `json:"date" binding:"required"`
	Price     *float64 `json:"price" binding:"required"`
	Store     *string  `json:"store" binding:"omitempty,max=255"`
	ML        int      `json:"ml" binding:"gte=0"`
}

// PurchaseListQuery binds the query string of GET /purchases
type PurchaseListQuery struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
	MinPrice  *float64   `form:"min_price"`
	MaxPrice  *float64   `form:"max_price"`
	PageQuery
}

type PurchaseResponse struct {
	ID        uint    `json:"id"`
	PerfumeID uint    `json:"perfume_id"`
	UserID    uint    `json:"user_id"`
	Date      Date    `json:"date"`
	Price     float64 `json:"price"`
	Store     *string `json:"store"`
	ML        int     `json:"ml"`
}
