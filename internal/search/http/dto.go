package http

import (
	"encoding/json"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

// ActionRequest is one search action. Value carries the action's payload:
//
//	set_search_query, set_location, toggle_value  "text"
//	set_pickup_time, set_dropoff_time             "2025-07-01T09:00:00Z", or null to clear
//	set_range                                     {"min": 0, "max": 100}
//	set_daily_price_max, set_page, set_page_size  42
//	set_flag                                      true
//	remove_tag                                    "car_types:suv"
//	set_sort                                      {"sort_by": "price", "sort_order": "desc"}
//	reset_filters                                 (none)
type ActionRequest struct {
	Type  string          `json:"type" binding:"required"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type sortValue struct {
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// ToAction decodes the request into a reducer action.
func (r ActionRequest) ToAction() (search.Action, error) {
	field := search.TagType(r.Field)

	switch r.Type {
	case "set_search_query":
		v, err := decodeValue[string](r.Value)
		return search.SetSearchQuery{Query: v}, err
	case "set_location":
		v, err := decodeValue[string](r.Value)
		return search.SetLocation{Location: v}, err
	case "set_pickup_time":
		v, err := decodeTime(r.Value)
		return search.SetPickupTime{At: v}, err
	case "set_dropoff_time":
		v, err := decodeTime(r.Value)
		return search.SetDropoffTime{At: v}, err
	case "set_range":
		v, err := decodeValue[search.Range](r.Value)
		return search.SetRange{Field: field, Range: v}, err
	case "set_daily_price_max":
		v, err := decodeValue[int](r.Value)
		return search.SetDailyPriceMax{Value: v}, err
	case "toggle_value":
		v, err := decodeText(r.Value)
		return search.ToggleValue{Field: field, Value: v}, err
	case "set_flag":
		v, err := decodeValue[bool](r.Value)
		return search.SetFlag{Field: field, Value: v}, err
	case "remove_tag":
		v, err := decodeValue[string](r.Value)
		return search.RemoveTagAction{ID: v}, err
	case "reset_filters":
		return search.ResetFilters{}, nil
	case "set_sort":
		v, err := decodeValue[sortValue](r.Value)
		return search.SetSort{SortBy: v.SortBy, SortOrder: v.SortOrder}, err
	case "set_page":
		v, err := decodeValue[int](r.Value)
		return search.SetPage{Page: v}, err
	case "set_page_size":
		v, err := decodeValue[int](r.Value)
		return search.SetPageSize{PageSize: v}, err
	}
	return nil, search.ErrUnknownAction
}

func decodeValue[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, search.ErrInvalidValue
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, search.ErrInvalidValue
	}
	return v, nil
}

// decodeText accepts a string or a bare number, so seats can be sent as 7.
func decodeText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", search.ErrInvalidValue
}

// decodeTime accepts an RFC 3339 string; a missing value or null clears.
func decodeTime(raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, search.ErrInvalidValue
	}
	return &t, nil
}

// StateResponse is the search screen model: the raw state plus its
// projected tags.
type StateResponse struct {
	State             search.State `json:"state"`
	Tags              []search.Tag `json:"tags"`
	ActiveFilterCount int          `json:"active_filter_count"`
}

func NewStateResponse(s search.State, l search.Limits) StateResponse {
	tags := search.Project(s, l)
	return StateResponse{
		State:             s,
		Tags:              tags,
		ActiveFilterCount: search.ActiveFilterCount(tags),
	}
}
