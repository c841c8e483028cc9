package dto

import "time"

// DateRangeQuery binds the optional inclusive window of GET /stats/spending
type DateRangeQuery struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
}

type MostExpensiveQuery struct {
	Num int `form:"num,default=5"`
}

type TopUsersQuery struct {
	Limit int `form:"limit,default=3"`
}

type SpendingSummaryResponse struct {
	TotalSpent     float64 `json:"total_spent"`
	TotalPurchases int64   `json:"total_purchases"`
	AveragePrice   float64 `json:"average_price"`
}

type RankedPurchaseResponse struct {
	Rank        int     `json:"rank"`
	PerfumeName string  `json:"perfume_name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Date        Date    `json:"date"`
}

type DashboardResponse struct {
	TotalUsers     int64   `json:"total_users"`
	TotalPerfumes  int64   `json:"total_perfumes"`
	TotalPurchases int64   `json:"total_purchases"`
	TotalAmount    float64 `json:"total_amount"`
	ActiveUsers    int64   `json:"active_users"`
}

type PerfumeCountEntry struct {
	PerfumeCount int64        `json:"perfume_count"`
	User         UserResponse `json:"user"`
}

type ExpensivePurchaseEntry struct {
	Price   float64         `json:"price"`
	Perfume PerfumeResponse `json:"perfume"`
	User    UserResponse    `json:"user"`
}

type CollectionSpendEntry struct {
	TotalSpent float64      `json:"total_spent"`
	User       UserResponse `json:"user"`
}

// TopUsersResponse renders each empty ranking as null
type TopUsersResponse struct {
	MostPerfumes            []PerfumeCountEntry      `json:"most_perfumes"`
	MostExpensivePurchase   []ExpensivePurchaseEntry `json:"most_expensive_purchase"`
	MostExpensiveCollection []CollectionSpendEntry   `json:"most_expensive_collection"`
}
