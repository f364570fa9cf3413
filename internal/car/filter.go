package car

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nekogravitycat/car-rental-bff/internal/listing"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

// Predicates turns the search state into one predicate per active
// constraint. Constraints at their default produce no predicate.
// Pickup and dropoff times do not filter the catalog.
func Predicates(s search.State, l search.Limits) []listing.Predicate[Car] {
	c := s.Criteria
	def := search.DefaultCriteria(l)
	var preds []listing.Predicate[Car]

	if c.PriceRange != def.PriceRange {
		r := c.PriceRange
		preds = append(preds, func(car Car) bool { return r.Contains(car.PricePerDay) })
	}
	if c.DailyPriceMax != def.DailyPriceMax {
		limit := c.DailyPriceMax
		preds = append(preds, func(car Car) bool { return car.PricePerDay <= limit })
	}

	preds = append(preds,
		listing.AnyOf(c.CarTypes, func(car Car) string { return car.CarType }),
		listing.AnyOf(c.FuelTypes, func(car Car) string { return car.FuelType }),
		listing.AnyOf(c.TransmissionTypes, func(car Car) string { return car.Transmission }),
		listing.AnyOf(c.Brands, func(car Car) string { return car.Brand }),
		listing.AnyOf(c.Seats, func(car Car) int { return car.Seats }),
	)

	if c.YearRange != def.YearRange {
		r := c.YearRange
		preds = append(preds, func(car Car) bool { return r.Contains(car.Year) })
	}

	if len(c.Features) > 0 {
		wanted := slices.Clone(c.Features)
		preds = append(preds, func(car Car) bool {
			return slices.ContainsFunc(wanted, car.HasFeature)
		})
	}

	if c.InstantConfirmation {
		preds = append(preds, func(car Car) bool { return car.InstantConfirmation })
	}
	if c.FreeCancellation {
		preds = append(preds, func(car Car) bool { return car.FreeCancellation })
	}
	if c.AirConditioning {
		preds = append(preds, func(car Car) bool { return car.HasFeature(FeatureAirConditioning) })
	}
	if c.UnlimitedMileage {
		preds = append(preds, func(car Car) bool { return car.UnlimitedMileage })
	}
	if c.LuxuryOnly {
		preds = append(preds, func(car Car) bool { return car.Luxury })
	}

	if q := strings.ToLower(c.SearchQuery); q != "" {
		preds = append(preds, func(car Car) bool {
			return containsFold(car.Name, q) ||
				containsFold(car.Brand, q) ||
				containsFold(car.Model, q) ||
				containsFold(car.Location, q)
		})
	}
	if loc := strings.ToLower(s.Location); loc != "" {
		preds = append(preds, func(car Car) bool { return containsFold(car.Location, loc) })
	}

	return preds
}

// containsFold reports whether lowerNeedle occurs in s, ignoring case.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// Comparator returns the ordering for a sort key. The empty key keeps
// backend order.
func Comparator(sortBy string) (listing.Compare[Car], error) {
	switch sortBy {
	case search.SortNone:
		return nil, nil
	case search.SortPrice:
		return func(a, b Car) int { return cmp.Compare(a.PricePerDay, b.PricePerDay) }, nil
	case search.SortYear:
		return func(a, b Car) int { return cmp.Compare(a.Year, b.Year) }, nil
	case search.SortRating:
		return func(a, b Car) int { return cmp.Compare(a.Rating, b.Rating) }, nil
	case search.SortName:
		return func(a, b Car) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }, nil
	case search.SortCreatedAt:
		return func(a, b Car) int { return a.CreatedAt.Compare(b.CreatedAt) }, nil
	}
	return nil, search.ErrInvalidSortKey
}

// Query builds the listing query for a search state.
func Query(s search.State, l search.Limits) (listing.Query[Car], error) {
	compare, err := Comparator(s.SortBy)
	if err != nil {
		return listing.Query[Car]{}, err
	}
	return listing.Query[Car]{
		Predicates: Predicates(s, l),
		Compare:    compare,
		Direction:  listing.ParseDirection(s.SortOrder),
		Page:       s.Page,
		PageSize:   s.PageSize,
	}, nil
}
