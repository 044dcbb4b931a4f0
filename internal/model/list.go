package model

// List query defaults. They apply only to absent values; a value that
// is present but outside the allowed set fails validation instead of
// silently defaulting.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "asc"
)

// ListPatientsRequest is the paginated, searchable, sortable list query.
// Page and Limit are pointers so an absent parameter is distinguishable
// from an explicit zero: only the former defaults, the latter fails
// validation.
type ListPatientsRequest struct {
	Page      *int   `json:"page" form:"page" validate:"required,min=1"`
	Limit     *int   `json:"limit" form:"limit" validate:"required,min=1,max=100"`
	Search    string `json:"search" form:"search"`
	SortBy    string `json:"sortBy" form:"sortBy" validate:"oneof=firstName lastName email phoneNumber dob createdAt"`
	SortOrder string `json:"sortOrder" form:"sortOrder" validate:"oneof=asc desc"`
}

// ApplyDefaults fills absent values before validation.
func (r *ListPatientsRequest) ApplyDefaults() {
	if r.Page == nil {
		page := DefaultPage
		r.Page = &page
	}
	if r.Limit == nil {
		limit := DefaultLimit
		r.Limit = &limit
	}
	if r.SortBy == "" {
		r.SortBy = DefaultSortBy
	}
	if r.SortOrder == "" {
		r.SortOrder = DefaultSortOrder
	}
}

// Pagination is the envelope returned alongside every list result.
// All fields derive from total, page and limit, never from the length
// of the returned slice.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// PatientList pairs a page of records with its pagination envelope.
type PatientList struct {
	Patients   []*Patient `json:"patients"`
	Pagination Pagination `json:"pagination"`
}
