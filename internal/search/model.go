package search

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/pagination"
)

var (
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, "range minimum must not exceed maximum")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price must not be negative")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "dropoff time must be after pickup time")
	ErrUnknownField     = apperror.New(http.StatusBadRequest, "unknown filter field")
	ErrInvalidValue     = apperror.New(http.StatusBadRequest, "invalid filter value")
	ErrInvalidSortKey   = apperror.New(http.StatusBadRequest, "invalid sort key")
	ErrInvalidPage      = apperror.New(http.StatusBadRequest, "invalid page or page size")
	ErrUnknownAction    = apperror.New(http.StatusBadRequest, "unknown search action")
)

// Limits bound the price and year sliders. Their extremes are the
// "no constraint" defaults.
type Limits struct {
	MaxPrice int
	MinYear  int
	MaxYear  int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPrice: 5_000_000,
		MinYear:  2000,
		MaxYear:  2025,
	}
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Criteria holds every user-selected search constraint.
type Criteria struct {
	PriceRange          Range    `json:"price_range"`
	DailyPriceMax       int      `json:"daily_price_max"`
	CarTypes            []string `json:"car_types"`
	FuelTypes           []string `json:"fuel_types"`
	TransmissionTypes   []string `json:"transmission_types"`
	Brands              []string `json:"brands"`
	Seats               []int    `json:"seats"`
	YearRange           Range    `json:"year_range"`
	Features            []string `json:"features"`
	InstantConfirmation bool     `json:"instant_confirmation"`
	FreeCancellation    bool     `json:"free_cancellation"`
	AirConditioning     bool     `json:"air_conditioning"`
	UnlimitedMileage    bool     `json:"unlimited_mileage"`
	LuxuryOnly          bool     `json:"luxury_only"`
	SearchQuery         string   `json:"search_query"`
}

// DefaultCriteria returns the criteria that filter nothing.
func DefaultCriteria(l Limits) Criteria {
	return Criteria{
		PriceRange:        Range{Min: 0, Max: l.MaxPrice},
		DailyPriceMax:     l.MaxPrice,
		CarTypes:          []string{},
		FuelTypes:         []string{},
		TransmissionTypes: []string{},
		Brands:            []string{},
		Seats:             []int{},
		YearRange:         Range{Min: l.MinYear, Max: l.MaxYear},
		Features:          []string{},
	}
}

// Normalize fills absent constraints with their defaults, clamps ranges
// into the limits, trims text and deduplicates the multi-select sets.
// A zero Range or zero DailyPriceMax counts as absent.
func (c Criteria) Normalize(l Limits) Criteria {
	def := DefaultCriteria(l)

	if c.PriceRange == (Range{}) {
		c.PriceRange = def.PriceRange
	}
	c.PriceRange = clampRange(c.PriceRange, 0, l.MaxPrice)

	if c.DailyPriceMax <= 0 || c.DailyPriceMax > l.MaxPrice {
		c.DailyPriceMax = l.MaxPrice
	}

	if c.YearRange == (Range{}) {
		c.YearRange = def.YearRange
	}
	c.YearRange = clampRange(c.YearRange, l.MinYear, l.MaxYear)

	c.CarTypes = uniqueStrings(c.CarTypes)
	c.FuelTypes = uniqueStrings(c.FuelTypes)
	c.TransmissionTypes = uniqueStrings(c.TransmissionTypes)
	c.Brands = uniqueStrings(c.Brands)
	c.Features = uniqueStrings(c.Features)
	c.Seats = uniqueInts(c.Seats)
	c.SearchQuery = strings.TrimSpace(c.SearchQuery)

	return c
}

// Validate checks the range invariants.
func (c Criteria) Validate() error {
	if c.PriceRange.Min > c.PriceRange.Max || c.YearRange.Min > c.YearRange.Max {
		return ErrInvalidRange
	}
	if c.PriceRange.Min < 0 || c.DailyPriceMax < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Sort keys understood by the catalog.
const (
	SortNone      = ""
	SortPrice     = "price"
	SortYear      = "year"
	SortRating    = "rating"
	SortName      = "name"
	SortCreatedAt = "created_at"
)

func ValidSortKey(key string) bool {
	switch key {
	case SortNone, SortPrice, SortYear, SortRating, SortName, SortCreatedAt:
		return true
	}
	return false
}

// State is the application state of the search screen.
type State struct {
	Criteria    Criteria   `json:"criteria"`
	Location    string     `json:"location"`
	PickupTime  *time.Time `json:"pickup_time,omitempty"`
	DropoffTime *time.Time `json:"dropoff_time,omitempty"`
	SortBy      string     `json:"sort_by"`
	SortOrder   string     `json:"sort_order"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
}

// NewState returns the initial search state.
func NewState(l Limits) State {
	return State{
		Criteria:  DefaultCriteria(l),
		SortOrder: "asc",
		Page:      pagination.DefaultPage,
		PageSize:  pagination.DefaultPageSize,
	}
}

// Validate checks every invariant of the state.
func (s State) Validate() error {
	if err := s.Criteria.Validate(); err != nil {
		return err
	}
	if s.PickupTime != nil && s.DropoffTime != nil && !s.DropoffTime.After(*s.PickupTime) {
		return ErrInvalidTimeRange
	}
	if !ValidSortKey(s.SortBy) {
		return ErrInvalidSortKey
	}
	if s.Page < 1 || s.PageSize < 1 || s.PageSize > pagination.MaxPageSize {
		return ErrInvalidPage
	}
	return nil
}

func clampRange(r Range, lo, hi int) Range {
	r.Min = max(r.Min, lo)
	r.Max = min(r.Max, hi)
	return r
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func uniqueInts(in []int) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		if v <= 0 || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
