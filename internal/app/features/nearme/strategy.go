package nearme

import nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"

// strategy names the page a resolved path is rendered with.
type strategy int

const (
	strategyNotFound strategy = iota
	strategyBusiness
	strategyLocationCategory
	strategyLocation
	strategyCategory
)

func (s strategy) String() string {
	switch s {
	case strategyBusiness:
		return "business_detail"
	case strategyLocationCategory:
		return "location_category_listing"
	case strategyLocation:
		return "location_listing"
	case strategyCategory:
		return "category_listing"
	default:
		return "not_found"
	}
}

// selectStrategy maps a resolver result to its page. It does no I/O; every
// strategy loads its own listings.
func selectStrategy(res nearmepath.Result) strategy {
	switch res.Kind {
	case nearmepath.BusinessKind:
		if res.Business != nil {
			return strategyBusiness
		}
	case nearmepath.LocationAndCategoryKind:
		if res.Location != nil && res.Category != nil {
			return strategyLocationCategory
		}
	case nearmepath.LocationKind:
		if res.Location != nil {
			return strategyLocation
		}
	case nearmepath.CategoryOnlyKind:
		if res.Category != nil {
			return strategyCategory
		}
	}
	return strategyNotFound
}
