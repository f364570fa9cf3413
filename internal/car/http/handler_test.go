package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/response"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

type stubRepository struct {
	cars []*car.Car
}

func (s *stubRepository) ListPage(_ context.Context, pageNumber, pageSize int) (backend.Paged[*car.Car], error) {
	return backend.Paged[*car.Car]{
		Data:       s.cars,
		Pagination: backend.Pagination{PageNumber: 1, PageSize: pageSize, TotalRecords: len(s.cars), TotalPages: 1},
	}, nil
}

func (s *stubRepository) Verify(_ context.Context, id string) (*car.Car, error) {
	return nil, car.ErrNotFound
}

func (s *stubRepository) Edit(_ context.Context, id string, req car.EditRequest) (*car.Car, error) {
	for _, c := range s.cars {
		if c.ID == id {
			cp := *c
			if req.PricePerDay != nil {
				cp.PricePerDay = *req.PricePerDay
			}
			return &cp, nil
		}
	}
	return nil, car.ErrNotFound
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := &stubRepository{cars: []*car.Car{
		{ID: "car-1", OwnerID: "owner-a", Name: "Mazda CX-5", Brand: "Mazda", Seats: 5, Year: 2021, PricePerDay: 900_000},
		{ID: "car-2", OwnerID: "owner-b", Name: "Kia Morning", Brand: "Kia", Seats: 4, Year: 2018, PricePerDay: 400_000},
		{ID: "car-3", OwnerID: "owner-a", Name: "Ford Ranger", Brand: "Ford", Seats: 5, Year: 2022, PricePerDay: 1_100_000},
	}}
	limits := search.DefaultLimits()
	svc := car.NewService(repo, car.NewCatalog(repo, 50), limits, inflight.NewSet(), time.Second)

	r := gin.New()
	r.Use(auth.Session(auth.NewClaimsReader()))
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, limits), auth.AuthRequired())
	return r
}

func ownerToken(t *testing.T, sub string) string {
	t.Helper()
	claims := &auth.Claims{
		UserID:           sub,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func executeRequest(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCarRoutes(t *testing.T) {
	r := setupRouter()

	t.Run("List: filter, sort and paginate from the query", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/cars?min_price=500000&sort_by=price&sort_order=DESC&page_size=1&page=2", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp response.PageResponse[CarResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "car-1", resp.Items[0].ID)
		assert.Equal(t, 2, resp.Pagination.TotalRecords)
		assert.Equal(t, 2, resp.Pagination.PageNumber)
	})

	t.Run("List: repeated parameters are OR-ed", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/cars?brand=Kia&brand=Ford", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp response.PageResponse[CarResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 2)
	})

	t.Run("List: inverted range is rejected", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/cars?min_year=2024&max_year=2010", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List: unknown sort key is rejected", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/cars?sort_by=colour", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Get: not found", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/cars/car-404", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Owner: requires a token", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/owner/cars", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Owner: lists own cars", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/owner/cars?sort_by=year&sort_order=desc", nil, ownerToken(t, "owner-a"))
		require.Equal(t, http.StatusOK, w.Code)

		var resp response.PageResponse[CarResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "car-3", resp.Items[0].ID)
		assert.Equal(t, "car-1", resp.Items[1].ID)
	})

	t.Run("Owner: edits own car", func(t *testing.T) {
		w := executeRequest(r, "PATCH", "/v1/owner/cars/car-1", map[string]any{"price_per_day": 950_000}, ownerToken(t, "owner-a"))
		require.Equal(t, http.StatusOK, w.Code)

		var resp CarResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 950_000, resp.PricePerDay)
	})

	t.Run("Owner: cannot edit another owner's car", func(t *testing.T) {
		w := executeRequest(r, "PATCH", "/v1/owner/cars/car-2", map[string]any{"price_per_day": 1}, ownerToken(t, "owner-a"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Owner: invalid body", func(t *testing.T) {
		w := executeRequest(r, "PATCH", "/v1/owner/cars/car-1", map[string]any{"price_per_day": -5}, ownerToken(t, "owner-a"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
