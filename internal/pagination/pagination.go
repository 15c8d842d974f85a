package pagination

import "gorm.io/gorm"

const (
	// DefaultLimit is used when the client does not send a limit.
	DefaultLimit = 50
	// MaxLimit caps the number of rows returned by a single request.
	MaxLimit = 100
)

// OffsetRequest holds the skip/limit pair applied to a query.
type OffsetRequest struct {
	Skip  int
	Limit int
}

// OffsetQuery binds skip/limit from a query string. Limit is a pointer so an
// explicit limit=0 is rejected rather than replaced by the default.
type OffsetQuery struct {
	Skip  int  `form:"skip" binding:"min=0"`
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Request converts the bound query into an OffsetRequest, using DefaultLimit
// when no limit was sent.
func (q OffsetQuery) Request() OffsetRequest {
	req := OffsetRequest{Skip: q.Skip, Limit: DefaultLimit}
	if q.Limit != nil {
		req.Limit = *q.Limit
	}
	return req
}

// Defaults fills in default values when limit is not provided and clamps
// out-of-range values coming from non-HTTP callers.
func (p *OffsetRequest) Defaults() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given request.
func Paginate(req OffsetRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		req.Defaults()
		return db.Offset(req.Skip).Limit(req.Limit)
	}
}
