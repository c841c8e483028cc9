package dto

type CreatePerfumeRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Brand         string `json:"brand" binding:"required,max=255"`
	Concentration string `json:"concentration" binding:"required,concentration"`
	Season        string `json:"season" binding:"required,season"`
	Available     *bool  `json:"available"`
}

// UpdatePerfumeRequest is a partial update; absent fields stay unchanged
type UpdatePerfumeRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=255"`
	Brand         *string `json:"brand" binding:"omitempty,min=1,max=255"`
	Concentration *string `json:"concentration" binding:"omitempty,concentration"`
	Season        *string `json:"season" binding:"omitempty,season"`
	Available     *bool   `json:"available"`
}

// PerfumeListQuery binds the query string of GET /perfumes
type PerfumeListQuery struct {
	Available     *bool   `form:"available"`
	Concentration *string `form:"concentration" binding:"omitempty,concentration"`
	Season        *string `form:"season" binding:"omitempty,season"`
	Brand         string  `form:"brand"`
	SortBy        string  `form:"sort_by"`
	Order         string  `form:"order"`
	PageQuery
}

type PerfumeResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Concentration string `json:"concentration"`
	Season        string `json:"season"`
	Available     bool   `json:"available"`
	UserID        uint   `json:"user_id"`
}
