package pagination

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// sortColumns maps the accepted sort keys onto columns. A leading "-" on the
// key flips the direction to descending.
var sortColumns = map[string]string{
	"due_date":   "due_date",
	"amount":     "amount",
	"name":       "name",
	"created_at": "created_at",
}

// PageRequest holds list parameters parsed from the query string.
type PageRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=due_date -due_date amount -amount name -name created_at -created_at"`
}

// Defaults fills page 1, the default page size and due-date ordering.
func (p *PageRequest) Defaults() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Sort == "" {
		p.Sort = "due_date"
	}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// OrderClause renders Sort as an ORDER BY fragment. Unknown keys fall back
// to due date so a bad value never reaches SQL.
func (p PageRequest) OrderClause() string {
	key, dir := p.Sort, "ASC"
	if strings.HasPrefix(key, "-") {
		key, dir = key[1:], "DESC"
	}
	col, ok := sortColumns[key]
	if !ok {
		col, dir = "due_date", "ASC"
	}
	return col + " " + dir
}

// PageResponse wraps one page of items with its position in the full list.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// NewPageResponse builds a PageResponse; Data is never nil.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// Paginate is a GORM scope applying the requested order, offset and limit.
// created_at breaks ties so pages stay stable.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(req.OrderClause()).Order("created_at ASC").
			Offset(req.Offset()).Limit(req.PageSize)
	}
}
