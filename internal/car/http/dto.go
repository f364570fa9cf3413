package http

import (
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

// ListCarsRequest defines query parameters for stateless car listing.
// Repeated parameters (e.g. ?brand=Kia&brand=Mazda) select several values.
type ListCarsRequest struct {
	request.ListParams
	SortBy              string   `form:"sort_by" binding:"omitempty,oneof=price year rating name created_at"`
	Query               string   `form:"q"`
	Location            string   `form:"location"`
	MinPrice            *int     `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice            *int     `form:"max_price" binding:"omitempty,min=0"`
	DailyPriceMax       *int     `form:"daily_price_max" binding:"omitempty,min=1"`
	MinYear             *int     `form:"min_year"`
	MaxYear             *int     `form:"max_year"`
	CarTypes            []string `form:"car_type"`
	FuelTypes           []string `form:"fuel_type"`
	TransmissionTypes   []string `form:"transmission"`
	Brands              []string `form:"brand"`
	Seats               []int    `form:"seats"`
	Features            []string `form:"feature"`
	InstantConfirmation bool     `form:"instant_confirmation"`
	FreeCancellation    bool     `form:"free_cancellation"`
	AirConditioning     bool     `form:"air_conditioning"`
	UnlimitedMileage    bool     `form:"unlimited_mileage"`
	LuxuryOnly          bool     `form:"luxury_only"`
}

// ToState converts the query into a validated search state.
func (r *ListCarsRequest) ToState(l search.Limits) (search.State, error) {
	r.Normalize()

	c := search.DefaultCriteria(l)
	if r.MinPrice != nil {
		c.PriceRange.Min = *r.MinPrice
	}
	if r.MaxPrice != nil {
		c.PriceRange.Max = *r.MaxPrice
	}
	if r.DailyPriceMax != nil {
		c.DailyPriceMax = *r.DailyPriceMax
	}
	if r.MinYear != nil {
		c.YearRange.Min = *r.MinYear
	}
	if r.MaxYear != nil {
		c.YearRange.Max = *r.MaxYear
	}
	c.CarTypes = r.CarTypes
	c.FuelTypes = r.FuelTypes
	c.TransmissionTypes = r.TransmissionTypes
	c.Brands = r.Brands
	c.Seats = r.Seats
	c.Features = r.Features
	c.InstantConfirmation = r.InstantConfirmation
	c.FreeCancellation = r.FreeCancellation
	c.AirConditioning = r.AirConditioning
	c.UnlimitedMileage = r.UnlimitedMileage
	c.LuxuryOnly = r.LuxuryOnly
	c.SearchQuery = r.Query

	s := search.NewState(l)
	s.Criteria = c.Normalize(l)
	s.Location = r.Location
	s.SortBy = r.SortBy
	if r.SortOrder != "" {
		s.SortOrder = strings.ToLower(r.SortOrder)
	}
	s.Page = r.Page
	s.PageSize = r.PageSize

	if err := s.Validate(); err != nil {
		return search.State{}, err
	}
	return s, nil
}

type CarResponse struct {
	ID                  string    `json:"id"`
	OwnerID             string    `json:"owner_id"`
	Name                string    `json:"name"`
	Brand               string    `json:"brand"`
	Model               string    `json:"model"`
	CarType             string    `json:"car_type"`
	FuelType            string    `json:"fuel_type"`
	Transmission        string    `json:"transmission"`
	Seats               int       `json:"seats"`
	Year                int       `json:"year"`
	PricePerDay         int       `json:"price_per_day"`
	Features            []string  `json:"features"`
	Location            string    `json:"location"`
	InstantConfirmation bool      `json:"instant_confirmation"`
	FreeCancellation    bool      `json:"free_cancellation"`
	UnlimitedMileage    bool      `json:"unlimited_mileage"`
	Luxury              bool      `json:"luxury"`
	Status              string    `json:"status"`
	Rating              float64   `json:"rating"`
	CreatedAt           time.Time `json:"created_at"`
}

func NewCarResponse(c car.Car) CarResponse {
	features := c.Features
	if features == nil {
		features = []string{}
	}
	return CarResponse{
		ID:                  c.ID,
		OwnerID:             c.OwnerID,
		Name:                c.Name,
		Brand:               c.Brand,
		Model:               c.Model,
		CarType:             c.CarType,
		FuelType:            c.FuelType,
		Transmission:        c.Transmission,
		Seats:               c.Seats,
		Year:                c.Year,
		PricePerDay:         c.PricePerDay,
		Features:            features,
		Location:            c.Location,
		InstantConfirmation: c.InstantConfirmation,
		FreeCancellation:    c.FreeCancellation,
		UnlimitedMileage:    c.UnlimitedMileage,
		Luxury:              c.Luxury,
		Status:              string(c.Status),
		Rating:              c.Rating,
		CreatedAt:           c.CreatedAt,
	}
}

// NewCarListResponse maps a page of cars.
func NewCarListResponse(cars []car.Car) []CarResponse {
	items := make([]CarResponse, len(cars))
	for i, c := range cars {
		items[i] = NewCarResponse(c)
	}
	return items
}

type EditCarRequest struct {
	Name                *string  `json:"name" binding:"omitempty,max=120"`
	PricePerDay         *int     `json:"price_per_day" binding:"omitempty,min=1"`
	Location            *string  `json:"location" binding:"omitempty,max=200"`
	Features            []string `json:"features" binding:"omitempty,dive,required"`
	InstantConfirmation *bool    `json:"instant_confirmation"`
	FreeCancellation    *bool    `json:"free_cancellation"`
	UnlimitedMileage    *bool    `json:"unlimited_mileage"`
}

func (r EditCarRequest) ToDomain() car.EditRequest {
	return car.EditRequest{
		Name:                r.Name,
		PricePerDay:         r.PricePerDay,
		Location:            r.Location,
		Features:            r.Features,
		InstantConfirmation: r.InstantConfirmation,
		FreeCancellation:    r.FreeCancellation,
		UnlimitedMileage:    r.UnlimitedMileage,
	}
}
