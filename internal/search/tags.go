package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TagType names the state field a tag was projected from.
type TagType string

const (
	TagSearch              TagType = "search"
	TagLocation            TagType = "location"
	TagPickupTime          TagType = "pickup_time"
	TagDropoffTime         TagType = "dropoff_time"
	TagPriceRange          TagType = "price_range"
	TagDailyPriceMax       TagType = "daily_price_max"
	TagCarType             TagType = "car_types"
	TagFuelType            TagType = "fuel_types"
	TagTransmissionType    TagType = "transmission_types"
	TagBrand               TagType = "brands"
	TagSeats               TagType = "seats"
	TagYearRange           TagType = "year_range"
	TagFeature             TagType = "features"
	TagInstantConfirmation TagType = "instant_confirmation"
	TagFreeCancellation    TagType = "free_cancellation"
	TagAirConditioning     TagType = "air_conditioning"
	TagUnlimitedMileage    TagType = "unlimited_mileage"
	TagLuxuryOnly          TagType = "luxury_only"
)

const displayTimeLayout = "02/01/2006 15:04"

// Tag is one "active filter" chip.
type Tag struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Type  TagType `json:"type"`
	Value string  `json:"value"`
}

// Project derives the active-filter tags of a state. Fields at their
// default emit nothing. Multi-select fields emit one tag per value.
func Project(s State, l Limits) []Tag {
	c := s.Criteria
	def := DefaultCriteria(l)
	tags := make([]Tag, 0)

	if c.SearchQuery != "" {
		tags = append(tags, Tag{ID: string(TagSearch), Label: "Search: " + c.SearchQuery, Type: TagSearch, Value: c.SearchQuery})
	}
	if s.Location != "" {
		tags = append(tags, Tag{ID: string(TagLocation), Label: "Location: " + s.Location, Type: TagLocation, Value: s.Location})
	}
	if s.PickupTime != nil {
		tags = append(tags, timeTag(TagPickupTime, "Pickup", *s.PickupTime))
	}
	if s.DropoffTime != nil {
		tags = append(tags, timeTag(TagDropoffTime, "Dropoff", *s.DropoffTime))
	}

	if c.PriceRange != def.PriceRange {
		tags = append(tags, Tag{
			ID:    string(TagPriceRange),
			Label: fmt.Sprintf("Price: %s - %s", formatMoney(c.PriceRange.Min), formatMoney(c.PriceRange.Max)),
			Type:  TagPriceRange,
			Value: fmt.Sprintf("%d-%d", c.PriceRange.Min, c.PriceRange.Max),
		})
	}
	if c.DailyPriceMax != def.DailyPriceMax {
		tags = append(tags, Tag{
			ID:    string(TagDailyPriceMax),
			Label: "Up to " + formatMoney(c.DailyPriceMax) + "/day",
			Type:  TagDailyPriceMax,
			Value: strconv.Itoa(c.DailyPriceMax),
		})
	}

	tags = appendValueTags(tags, TagCarType, c.CarTypes)
	tags = appendValueTags(tags, TagFuelType, c.FuelTypes)
	tags = appendValueTags(tags, TagTransmissionType, c.TransmissionTypes)
	tags = appendValueTags(tags, TagBrand, c.Brands)
	for _, n := range c.Seats {
		v := strconv.Itoa(n)
		tags = append(tags, Tag{ID: valueTagID(TagSeats, v), Label: v + " seats", Type: TagSeats, Value: v})
	}

	if c.YearRange != def.YearRange {
		tags = append(tags, Tag{
			ID:    string(TagYearRange),
			Label: fmt.Sprintf("Year: %d - %d", c.YearRange.Min, c.YearRange.Max),
			Type:  TagYearRange,
			Value: fmt.Sprintf("%d-%d", c.YearRange.Min, c.YearRange.Max),
		})
	}

	tags = appendValueTags(tags, TagFeature, c.Features)

	for _, f := range flagTable {
		if f.get(&c) {
			tags = append(tags, Tag{ID: string(f.tag), Label: f.label, Type: f.tag, Value: "true"})
		}
	}

	return tags
}

// ActiveFilterCount is the badge count: every tag except the location one.
func ActiveFilterCount(tags []Tag) int {
	n := 0
	for _, t := range tags {
		if t.Type != TagLocation {
			n++
		}
	}
	return n
}

// RemoveTag resets the field behind tag id to its default. Multi-select
// tags remove only their own value. Unknown or already removed tags leave
// the state unchanged.
func RemoveTag(s State, id string, l Limits) State {
	kind, value, _ := strings.Cut(id, ":")
	def := DefaultCriteria(l)
	c := &s.Criteria

	switch TagType(kind) {
	case TagSearch:
		c.SearchQuery = ""
	case TagLocation:
		s.Location = ""
	case TagPickupTime:
		s.PickupTime = nil
	case TagDropoffTime:
		s.DropoffTime = nil
	case TagPriceRange:
		c.PriceRange = def.PriceRange
	case TagDailyPriceMax:
		c.DailyPriceMax = def.DailyPriceMax
	case TagYearRange:
		c.YearRange = def.YearRange
	case TagSeats:
		if n, err := strconv.Atoi(value); err == nil {
			c.Seats = without(c.Seats, n)
		}
	default:
		if set := stringSet(c, TagType(kind)); set != nil {
			*set = without(*set, value)
			break
		}
		if f, ok := lookupFlag(TagType(kind)); ok {
			f.set(c, false)
		}
	}

	return s
}

func timeTag(t TagType, prefix string, at time.Time) Tag {
	return Tag{
		ID:    string(t),
		Label: prefix + ": " + at.Format(displayTimeLayout),
		Type:  t,
		Value: at.Format(time.RFC3339),
	}
}

func appendValueTags(tags []Tag, t TagType, values []string) []Tag {
	for _, v := range values {
		tags = append(tags, Tag{ID: valueTagID(t, v), Label: v, Type: t, Value: v})
	}
	return tags
}

func valueTagID(t TagType, v string) string {
	return string(t) + ":" + v
}

// stringSet returns a pointer to the multi-select string field for t.
func stringSet(c *Criteria, t TagType) *[]string {
	switch t {
	case TagCarType:
		return &c.CarTypes
	case TagFuelType:
		return &c.FuelTypes
	case TagTransmissionType:
		return &c.TransmissionTypes
	case TagBrand:
		return &c.Brands
	case TagFeature:
		return &c.Features
	}
	return nil
}

type flag struct {
	tag   TagType
	label string
	get   func(*Criteria) bool
	set   func(*Criteria, bool)
}

// flagTable lists the boolean filters in declaration order.
var flagTable = []flag{
	{TagInstantConfirmation, "Instant confirmation",
		func(c *Criteria) bool { return c.InstantConfirmation }, func(c *Criteria, v bool) { c.InstantConfirmation = v }},
	{TagFreeCancellation, "Free cancellation",
		func(c *Criteria) bool { return c.FreeCancellation }, func(c *Criteria, v bool) { c.FreeCancellation = v }},
	{TagAirConditioning, "Air conditioning",
		func(c *Criteria) bool { return c.AirConditioning }, func(c *Criteria, v bool) { c.AirConditioning = v }},
	{TagUnlimitedMileage, "Unlimited mileage",
		func(c *Criteria) bool { return c.UnlimitedMileage }, func(c *Criteria, v bool) { c.UnlimitedMileage = v }},
	{TagLuxuryOnly, "Luxury only",
		func(c *Criteria) bool { return c.LuxuryOnly }, func(c *Criteria, v bool) { c.LuxuryOnly = v }},
}

func lookupFlag(t TagType) (flag, bool) {
	for _, f := range flagTable {
		if f.tag == t {
			return f, true
		}
	}
	return flag{}, false
}

// without returns a copy of set minus v. The input is never modified.
func without[T comparable](set []T, v T) []T {
	out := make([]T, 0, len(set))
	for _, x := range set {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// formatMoney renders an amount with thousands separators, e.g. 1,250,000.
func formatMoney(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatMoney(-n)
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
