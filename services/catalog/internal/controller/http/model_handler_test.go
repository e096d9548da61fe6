package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/middleware"
	"hookr/pkg/validation"
	"hookr/services/catalog/internal/entity"
	"hookr/services/catalog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockModelUseCase struct {
	mock.Mock
}

var _ usecase.ModelUseCase = (*MockModelUseCase)(nil)

func (m *MockModelUseCase) model(args mock.Arguments) (*entity.Model, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Model), args.Error(1)
}

func (m *MockModelUseCase) ListModels(ctx context.Context, f entity.Filter) ([]*entity.Model, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Model), args.Error(1)
}

func (m *MockModelUseCase) Browse(ctx context.Context, origin *entity.Point, limit int) (*entity.Browse, error) {
	args := m.Called(ctx, origin, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Browse), args.Error(1)
}

func (m *MockModelUseCase) GetModel(ctx context.Context, id string, origin *entity.Point) (*entity.Model, error) {
	return m.model(m.Called(ctx, id, origin))
}

func (m *MockModelUseCase) GetMyModel(ctx context.Context, userID string) (*entity.Model, error) {
	return m.model(m.Called(ctx, userID))
}

func (m *MockModelUseCase) CreateModel(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error) {
	return m.model(m.Called(ctx, userID, in))
}

func (m *MockModelUseCase) UpdateMyModel(ctx context.Context, userID string, in entity.ModelInput) (*entity.Model, error) {
	return m.model(m.Called(ctx, userID, in))
}

func (m *MockModelUseCase) SetMyTags(ctx context.Context, userID string, tags []string) (*entity.Model, error) {
	return m.model(m.Called(ctx, userID, tags))
}

func (m *MockModelUseCase) SetMyAvailability(ctx context.Context, userID string, days []entity.Availability) (*entity.Model, error) {
	return m.model(m.Called(ctx, userID, days))
}

func (m *MockModelUseCase) UploadImage(ctx context.Context, userID, filename, contentType string, file io.Reader) (*entity.Model, error) {
	return m.model(m.Called(ctx, userID, filename, contentType, file))
}

func (m *MockModelUseCase) Services(ctx context.Context, id string) ([]entity.ServiceOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ServiceOffer), args.Error(1)
}

func setupRouter(uc usecase.ModelUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	h := NewModelHandler(uc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Next()
	})
	r.GET("/models", h.ListModels)
	r.GET("/models/browse", h.Browse)
	r.GET("/models/me", h.GetMyModel)
	r.GET("/models/:id", h.GetModel)
	r.GET("/models/:id/services", h.Services)
	r.POST("/models", h.CreateModel)
	r.PUT("/models/me/tags", h.SetTags)
	r.PUT("/models/me/availability", h.SetAvailability)
	return r
}

func TestListModels_ParsesFilters(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("ListModels", mock.Anything, mock.MatchedBy(func(f entity.Filter) bool {
		return f.Featured != nil && *f.Featured &&
			len(f.Tags) == 2 && f.Tags[0] == "blonde" &&
			f.MaxPriceCents == 30000 &&
			f.Origin != nil && f.Origin.Lat == 40.5 &&
			f.MaxDistance == 15 &&
			f.Sort == entity.SortRating &&
			f.Limit == 5 && f.Offset == 10
	})).Return([]*entity.Model{{ID: "m1", Distance: "1.0 miles"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/models?featured=true&tags=Blonde,travel&max_price=30000&lat=40.5&lng=-73.9&max_distance=15&sort=rating&limit=5&offset=10", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"distance":"1.0 miles"`)
	uc.AssertExpectations(t)
}

func TestListModels_BadQuery(t *testing.T) {
	uc := new(MockModelUseCase)

	for _, q := range []string{"sort=cheapest", "lat=200&lng=0", "min_rating=abc"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/models?"+q, nil)
		setupRouter(uc).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	uc.AssertNotCalled(t, "ListModels", mock.Anything, mock.Anything)
}

func TestGetModel_NotFound(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("GetModel", mock.Anything, "nope", (*entity.Point)(nil)).Return(nil, entity.ErrModelNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/models/nope", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"model not found"}`, w.Body.String())
}

func TestGetMyModel_StaticRouteWins(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("GetMyModel", mock.Anything, "user-1").Return(&entity.Model{ID: "mine"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/models/me", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"mine"`)
}

func TestBrowse(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("Browse", mock.Anything, &entity.Point{Lat: 1, Lng: 2}, 8).Return(&entity.Browse{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/models/browse?lat=1&lng=2", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestCreateModel_Forbidden(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("CreateModel", mock.Anything, "user-1", mock.Anything).Return(nil, entity.ErrApprovalRequired)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/models", bytes.NewBufferString(`{"name":"Jade","age":25}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"creator approval required"}`, w.Body.String())
}

func TestCreateModel_Underage(t *testing.T) {
	uc := new(MockModelUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/models", bytes.NewBufferString(`{"name":"Kid","age":17}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "CreateModel", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetAvailability_ValidatesWeekday(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("SetMyAvailability", mock.Anything, "user-1", []entity.Availability{{Day: "monday", Available: true}}).
		Return(&entity.Model{ID: "m1"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/models/me/availability", bytes.NewBufferString(`{"days":[{"day":"Funday","available":true}]}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(uc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/models/me/availability", bytes.NewBufferString(`{"days":[{"day":"monday","available":true}]}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(uc).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestSetTags_TooMany(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("SetMyTags", mock.Anything, "user-1", mock.Anything).Return(nil, entity.ErrTooManyTags)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/models/me/tags", bytes.NewBufferString(`{"tags":["a","b"]}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServices(t *testing.T) {
	uc := new(MockModelUseCase)
	uc.On("Services", mock.Anything, "m1").Return([]entity.ServiceOffer{{Name: "1 Hour", PriceCents: 20000}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/models/m1/services", nil)
	setupRouter(uc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price_cents":20000`)
}
