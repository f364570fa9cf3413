package search

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Action is one user intent on the search screen.
type Action interface {
	isAction()
}

type SetSearchQuery struct{ Query string }

type SetLocation struct{ Location string }

// SetPickupTime sets or, with a nil At, clears the pickup time.
type SetPickupTime struct{ At *time.Time }

type SetDropoffTime struct{ At *time.Time }

// SetRange updates price_range or year_range.
type SetRange struct {
	Field TagType
	Range Range
}

type SetDailyPriceMax struct{ Value int }

// ToggleValue adds Value to the multi-select Field, or removes it when present.
type ToggleValue struct {
	Field TagType
	Value string
}

type SetFlag struct {
	Field TagType
	Value bool
}

// RemoveTagAction dismisses the tag with the given ID.
type RemoveTagAction struct{ ID string }

// ResetFilters restores the default criteria and clears location and times.
// Sorting and page size survive.
type ResetFilters struct{}

type SetSort struct {
	SortBy    string
	SortOrder string
}

type SetPage struct{ Page int }

type SetPageSize struct{ PageSize int }

func (SetSearchQuery) isAction()   {}
func (SetLocation) isAction()      {}
func (SetPickupTime) isAction()    {}
func (SetDropoffTime) isAction()   {}
func (SetRange) isAction()         {}
func (SetDailyPriceMax) isAction() {}
func (ToggleValue) isAction()      {}
func (SetFlag) isAction()          {}
func (RemoveTagAction) isAction()  {}
func (ResetFilters) isAction()     {}
func (SetSort) isAction()          {}
func (SetPage) isAction()          {}
func (SetPageSize) isAction()      {}

// Reduce applies a to s and returns the next state. The input state is never
// modified. Every action other than SetPage sends the user back to page 1.
// A resulting state that breaks an invariant is rejected and s stays current.
func Reduce(s State, a Action, l Limits) (State, error) {
	next := s.clone()

	switch a := a.(type) {
	case SetSearchQuery:
		next.Criteria.SearchQuery = a.Query
	case SetLocation:
		next.Location = strings.TrimSpace(a.Location)
	case SetPickupTime:
		next.PickupTime = a.At
	case SetDropoffTime:
		next.DropoffTime = a.At
	case SetRange:
		switch a.Field {
		case TagPriceRange:
			next.Criteria.PriceRange = a.Range
		case TagYearRange:
			next.Criteria.YearRange = a.Range
		default:
			return s, ErrUnknownField
		}
		if a.Range.Min > a.Range.Max {
			return s, ErrInvalidRange
		}
	case SetDailyPriceMax:
		if a.Value < 0 {
			return s, ErrInvalidPrice
		}
		next.Criteria.DailyPriceMax = a.Value
	case ToggleValue:
		if err := toggle(&next.Criteria, a.Field, strings.TrimSpace(a.Value)); err != nil {
			return s, err
		}
	case SetFlag:
		f, ok := lookupFlag(a.Field)
		if !ok {
			return s, ErrUnknownField
		}
		f.set(&next.Criteria, a.Value)
	case RemoveTagAction:
		next = RemoveTag(next, a.ID, l)
	case ResetFilters:
		next.Criteria = DefaultCriteria(l)
		next.Location = ""
		next.PickupTime = nil
		next.DropoffTime = nil
	case SetSort:
		order := strings.ToLower(a.SortOrder)
		if order == "" {
			order = "asc"
		}
		if order != "asc" && order != "desc" {
			return s, ErrInvalidSortKey
		}
		next.SortBy = a.SortBy
		next.SortOrder = order
	case SetPage:
		next.Page = a.Page
	case SetPageSize:
		next.PageSize = a.PageSize
	default:
		return s, ErrUnknownAction
	}

	if _, ok := a.(SetPage); !ok {
		next.Page = 1
	}
	next.Criteria = next.Criteria.Normalize(l)

	if err := next.Validate(); err != nil {
		return s, err
	}
	return next, nil
}

func toggle(c *Criteria, field TagType, value string) error {
	if value == "" {
		return ErrInvalidValue
	}

	if field == TagSeats {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return ErrInvalidValue
		}
		if slices.Contains(c.Seats, n) {
			c.Seats = without(c.Seats, n)
		} else {
			c.Seats = append(c.Seats, n)
		}
		return nil
	}

	set := stringSet(c, field)
	if set == nil {
		return ErrUnknownField
	}
	if slices.Contains(*set, value) {
		*set = without(*set, value)
	} else {
		*set = append(*set, value)
	}
	return nil
}

// clone deep-copies the slices and time pointers so the result shares no
// memory with s.
func (s State) clone() State {
	c := &s.Criteria
	c.CarTypes = slices.Clone(c.CarTypes)
	c.FuelTypes = slices.Clone(c.FuelTypes)
	c.TransmissionTypes = slices.Clone(c.TransmissionTypes)
	c.Brands = slices.Clone(c.Brands)
	c.Seats = slices.Clone(c.Seats)
	c.Features = slices.Clone(c.Features)
	if s.PickupTime != nil {
		t := *s.PickupTime
		s.PickupTime = &t
	}
	if s.DropoffTime != nil {
		t := *s.DropoffTime
		s.DropoffTime = &t
	}
	return s
}
