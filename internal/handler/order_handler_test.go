package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopstack/internal/middleware"
	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func asActor(req *http.Request, actor model.Actor) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestOrderHandler_Create_GuestCheckout(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	orderID := uuid.New()
	mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.CreateOrderRequest")).
		Return(&model.OrderResponse{
			Order: model.Order{
				ID:          orderID,
				OrderNumber: "ORD-1-0001",
				TotalAmount: decimal.NewFromInt(1000),
			},
		}, nil)

	body := `{
		"customer": {"name": "Jane Doe", "email": "jane@example.com"},
		"items": [{"product": "` + uuid.NewString() + `", "quantity": 2, "price": 500}],
		"shippingAddress": {"street": "1 Main St", "city": "Pune", "zipCode": "411001", "country": "IN"},
		"paymentMethod": "razorpay"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_Create_RegisteredCustomer(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	customerID := uuid.New()

	var captured *model.CreateOrderRequest
	mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.CreateOrderRequest")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*model.CreateOrderRequest) }).
		Return(&model.OrderResponse{Order: model.Order{ID: uuid.New()}}, nil)

	// The customer field is a plain id string for registered customers.
	body := `{
		"customer": "` + customerID.String() + `",
		"items": [{"product": "` + uuid.NewString() + `", "quantity": 1, "price": 250}],
		"shippingAddress": {"street": "1 Main St", "city": "Pune", "zipCode": "411001", "country": "IN"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, captured)
	require.NotNil(t, captured.Customer.ID)
	assert.Equal(t, customerID, *captured.Customer.ID)
	assert.Nil(t, captured.Customer.Guest)
}

func TestOrderHandler_Create_ServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"validation error", model.NewValidationError("order must contain at least one item"), http.StatusBadRequest},
		{"opaque error", errors.New("database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			h := NewOrderHandler(mockService, zerolog.Nop())

			mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.CreateOrderRequest")).
				Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", resp.Message, "internal details must not leak")
			}
		})
	}
}

func TestOrderHandler_Create_InvalidBody(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestOrderHandler_List_RequiresAuth(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestOrderHandler_List_PassesActorAndFilter(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	actor := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	mockService.On("List", mock.Anything, actor, mock.MatchedBy(func(f model.OrderFilter) bool {
		return f.Status != nil && *f.Status == model.OrderStatusShipped && f.Limit == 5
	})).Return([]model.Order{}, nil)

	req := asActor(httptest.NewRequest(http.MethodGet, "/api/orders?status=shipped&limit=5", nil), actor)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_List_RejectsBadFilter(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	actor := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	req := asActor(httptest.NewRequest(http.MethodGet, "/api/orders?status=bogus", nil), actor)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestOrderHandler_Update_RoleGate(t *testing.T) {
	orderID := uuid.New()
	body := `{"status": "shipped"}`

	tests := []struct {
		name           string
		actor          *model.Actor
		expectedStatus int
		expectCall     bool
	}{
		{"anonymous", nil, http.StatusUnauthorized, false},
		{"customer", &model.Actor{ID: uuid.New(), Role: model.RoleCustomer}, http.StatusForbidden, false},
		{"shop manager", &model.Actor{ID: uuid.New(), Role: model.RoleShopManager}, http.StatusOK, true},
		{"admin", &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			h := NewOrderHandler(mockService, zerolog.Nop())

			if tt.expectCall {
				mockService.On("Update", mock.Anything, orderID, mock.AnythingOfType("*model.UpdateOrderRequest")).
					Return(&model.OrderResponse{Order: model.Order{ID: orderID}}, nil)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String(), strings.NewReader(body))
			if tt.actor != nil {
				req = asActor(req, *tt.actor)
			}
			rec := httptest.NewRecorder()
			h.Update(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.expectCall {
				mockService.AssertNotCalled(t, "Update")
			}
		})
	}
}

func TestOrderHandler_GetByID_InvalidID(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	actor := model.Actor{ID: uuid.New(), Role: model.RoleCustomer}
	req := asActor(httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil), actor)
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetByID")
}

func TestOrderHandler_Delete(t *testing.T) {
	orderID := uuid.New()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		mockService := new(MockOrderService)
		h := NewOrderHandler(mockService, zerolog.Nop())
		mockService.On("Delete", mock.Anything, orderID).Return(nil)

		req := asActor(httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil), actor)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockService := new(MockOrderService)
		h := NewOrderHandler(mockService, zerolog.Nop())
		mockService.On("Delete", mock.Anything, orderID).Return(model.NewNotFoundError("order not found"))

		req := asActor(httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil), actor)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
