package types

import (
	"github.com/samber/lo"

	ierr "github.com/arpay/arpay/internal/errors"
)

const (
	FILTER_DEFAULT_PAGE  = 0
	FILTER_DEFAULT_SIZE  = 20
	FILTER_MAX_SIZE      = 1000
	FILTER_DEFAULT_SORT  = "created_at"
	FILTER_DEFAULT_ORDER = "desc"

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// BaseFilter defines common filtering capabilities
type BaseFilter interface {
	GetPage() int
	GetSize() int
	GetSort() string
	GetOrder() string
	GetOffset() int
	Validate() error
	IsUnlimited() bool
}

// QueryFilter represents a generic page-based query filter with optional fields
type QueryFilter struct {
	Page  *int    `json:"page,omitempty" form:"page" validate:"omitempty,min=0"`
	Size  *int    `json:"size,omitempty" form:"size" validate:"omitempty,min=1,max=1000"`
	Sort  *string `json:"sort,omitempty" form:"sort"`
	Order *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter defines default values for query filters
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Page:  lo.ToPtr(FILTER_DEFAULT_PAGE),
		Size:  lo.ToPtr(FILTER_DEFAULT_SIZE),
		Sort:  lo.ToPtr(FILTER_DEFAULT_SORT),
		Order: lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Page:  lo.ToPtr(0),
		Size:  nil, // no size for unlimited queries
		Sort:  lo.ToPtr(FILTER_DEFAULT_SORT),
		Order: lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

// IsUnlimited returns true if this is an unlimited query
func (f QueryFilter) IsUnlimited() bool {
	return f.Size == nil
}

// GetPage returns the page value or default if not set
func (f QueryFilter) GetPage() int {
	if f.Page == nil {
		return FILTER_DEFAULT_PAGE
	}
	return *f.Page
}

// GetSize returns the page size or default if not set
func (f QueryFilter) GetSize() int {
	if f.IsUnlimited() {
		return 0
	}
	return *f.Size
}

// GetOffset returns the row offset derived from page and size
func (f QueryFilter) GetOffset() int {
	return f.GetPage() * f.GetSize()
}

// GetSort returns the sort value or default if not set
func (f QueryFilter) GetSort() string {
	if f.Sort == nil {
		return FILTER_DEFAULT_SORT
	}
	return *f.Sort
}

// GetOrder returns the order value or default if not set
func (f QueryFilter) GetOrder() string {
	if f.Order == nil {
		return FILTER_DEFAULT_ORDER
	}
	return *f.Order
}

// Validate validates the filter fields
func (f QueryFilter) Validate() error {
	if f.Page != nil && *f.Page < 0 {
		return ierr.NewError("page must be non negative").
			WithHint("Please provide a valid page number").
			Mark(ierr.ErrValidation)
	}
	if f.Size != nil && (*f.Size < 1 || *f.Size > FILTER_MAX_SIZE) {
		return ierr.NewError("size out of range").
			WithHintf("Page size must be between 1 and %d", FILTER_MAX_SIZE).
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != OrderAsc && *f.Order != OrderDesc {
		return ierr.NewError("invalid order").
			WithHint("Order must be asc or desc").
			Mark(ierr.ErrValidation)
	}
	return nil
}
