package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/server/http/dto"
	"github.com/polkiloo/orderflow/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/orderflow/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asCaller(caller model.Caller) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.CallerContextKey, caller)
	}
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return body
}

func TestCurrentCaller(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentCaller(c); got.MerchantID != 0 {
		t.Fatalf("expected empty caller when not set, got %+v", got)
	}

	c.Set(middleware.CallerContextKey, model.Caller{MerchantID: 42})
	if got := CurrentCaller(c); got.MerchantID != 42 {
		t.Fatalf("expected 42, got %+v", got)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{domainErrors.ErrEmptyOrder, http.StatusUnprocessableEntity, "EmptyOrder"},
		{fmt.Errorf("%w: qty", domainErrors.ErrInvalidOrder), http.StatusUnprocessableEntity, "InvalidOrder"},
		{domainErrors.ErrInvalidInput, http.StatusUnprocessableEntity, "InvalidInput"},
		{domainErrors.ErrNotFound, http.StatusNotFound, "NotFound"},
		{domainErrors.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{domainErrors.ErrInvalidTransition, http.StatusConflict, "InvalidTransition"},
		{domainErrors.ErrAlreadyExists, http.StatusConflict, "AlreadyExists"},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
		{fmt.Errorf("%w: timeout", domainErrors.ErrStorageUnavailable), http.StatusServiceUnavailable, "StorageUnavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) { respondError(c, tt.err) }, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			body := decodeError(t, resp)
			if body.Error != tt.kind {
				t.Fatalf("expected kind %q, got %q", tt.kind, body.Error)
			}
			if tt.status == http.StatusInternalServerError && body.Message != "internal error" {
				t.Fatalf("internal error details leaked: %q", body.Message)
			}
		})
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	login := testhelpers.RandomASCIIString(7, 14)
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.AuthRequest{Login: login, Password: password})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, gotLogin, gotPassword string) (string, error) {
		if gotLogin != login || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotLogin, gotPassword)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	var token dto.TokenResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &token); err != nil || token.Token != "session-token" {
		t.Fatalf("unexpected token body %q", resp.Body.String())
	}

	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	found := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "orderflow_token" && cookie.Value == "session-token" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named orderflow_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"login":"","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	failing := NewAuthHandler(testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
		return "", domainErrors.ErrInvalidCredentials
	}})
	resp = performRequest(t, http.MethodPost, "/login", "/login", failing.Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", failing.Login, nil, []byte("{"), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestShopHandlerCreate(t *testing.T) {
	owner := model.Caller{MerchantID: 7, Role: model.RoleMerchant}
	handler := NewShopHandler(testhelpers.ShopFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/shops", "/shops", handler.Create, asCaller(owner), []byte(`{"name":"Cafe","phone":"1555"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var shop dto.ShopResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &shop); err != nil || shop.OwnerID != 7 || shop.Name != "Cafe" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}

	handler = NewShopHandler(testhelpers.ShopFacadeStub{CreateFn: func(context.Context, model.Caller, string, string) (*model.Shop, error) {
		return nil, domainErrors.ErrInvalidInput
	}})
	resp = performRequest(t, http.MethodPost, "/shops", "/shops", handler.Create, asCaller(owner), []byte(`{"name":""}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestShopHandlerMenu(t *testing.T) {
	handler := NewShopHandler(testhelpers.ShopFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/shops/:id/menu", "/shops/3/menu", handler.Menu, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var menu []dto.MenuItemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &menu); err != nil || len(menu) != 1 || menu[0].Price != 150 {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}

	resp = performRequest(t, http.MethodGet, "/shops/:id/menu", "/shops/abc/menu", handler.Menu, nil, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for bad id, got %d", resp.Code)
	}
}

func TestShopHandlerReplaceMenu(t *testing.T) {
	var received []model.MenuItem
	handler := NewShopHandler(testhelpers.ShopFacadeStub{ReplaceMenuFn: func(_ context.Context, caller model.Caller, shopID int64, items []model.MenuItem) ([]model.MenuItem, error) {
		if caller.MerchantID != 7 || shopID != 3 {
			t.Fatalf("unexpected caller %+v or shop %d", caller, shopID)
		}
		received = items
		return items, nil
	}})
	body := []byte(`{"items":[{"name":"Tea","price":150},{"name":"Cake","price":400,"available":false}]}`)
	resp := performRequest(t, http.MethodPut, "/shops/:id/menu", "/shops/3/menu", handler.ReplaceMenu, asCaller(model.Caller{MerchantID: 7}), body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if len(received) != 2 || !received[0].Available || received[1].Available {
		t.Fatalf("unexpected items %+v", received)
	}

	forbidden := NewShopHandler(testhelpers.ShopFacadeStub{ReplaceMenuFn: func(context.Context, model.Caller, int64, []model.MenuItem) ([]model.MenuItem, error) {
		return nil, domainErrors.ErrForbidden
	}})
	resp = performRequest(t, http.MethodPut, "/shops/:id/menu", "/shops/3/menu", forbidden.ReplaceMenu, asCaller(model.Caller{MerchantID: 8}), body, jsonHeaders)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPut, "/shops/:id/menu", "/shops/3/menu", handler.ReplaceMenu, nil, []byte("["), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestShopHandlerOrders(t *testing.T) {
	handler := NewShopHandler(testhelpers.ShopFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/shops/:id/orders", "/shops/1/orders", handler.Orders, asCaller(model.Caller{MerchantID: 1}), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	handler = NewShopHandler(testhelpers.ShopFacadeStub{OrdersFn: func(context.Context, model.Caller, int64) ([]model.Order, error) {
		return []model.Order{*testhelpers.SampleOrder("b"), *testhelpers.SampleOrder("a")}, nil
	}})
	resp = performRequest(t, http.MethodGet, "/shops/:id/orders", "/shops/1/orders", handler.Orders, asCaller(model.Caller{MerchantID: 1}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var orders []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil || len(orders) != 2 || orders[0].ID != "b" || orders[0].Phone == "" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	var got model.NewOrder
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(_ context.Context, in model.NewOrder) (*model.Order, error) {
		got = in
		return testhelpers.SampleOrder("new"), nil
	}})
	body := []byte(`{"shop_id":1,"customer_name":"Ann","phone":"15550001","items":[{"item_id":1,"qty":2},{"name":"Cake","qty":1,"price":400}]}`)
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, nil, body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if got.ShopID != 1 || len(got.Items) != 2 || got.Items[0].ItemID != 1 || got.Items[1].Price != 400 {
		t.Fatalf("unexpected input %+v", got)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil || order.ID != "new" || order.Total != 300 || order.Status != "received" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestOrderHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
		kind   string
	}{
		{name: "bad json", body: "{", status: http.StatusBadRequest, kind: "bad_request"},
		{name: "empty", err: domainErrors.ErrEmptyOrder, body: `{"shop_id":1}`, status: http.StatusUnprocessableEntity, kind: "EmptyOrder"},
		{name: "unknown shop", err: domainErrors.ErrNotFound, body: `{"shop_id":9}`, status: http.StatusNotFound, kind: "NotFound"},
		{name: "storage", err: domainErrors.ErrStorageUnavailable, body: `{"shop_id":1}`, status: http.StatusServiceUnavailable, kind: "StorageUnavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(context.Context, model.NewOrder) (*model.Order, error) {
				return nil, tt.err
			}})
			resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, nil, []byte(tt.body), jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if body := decodeError(t, resp); body.Error != tt.kind {
				t.Fatalf("expected kind %q, got %q", tt.kind, body.Error)
			}
		})
	}
}

func TestOrderHandlerGetHidesContactData(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/abc", handler.Get, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "abc" || body["status"] != "received" || body["total"] != float64(300) {
		t.Fatalf("unexpected projection %v", body)
	}
	for _, key := range []string{"phone", "customer_name", "address"} {
		if _, ok := body[key]; ok {
			t.Fatalf("public projection exposes %q", key)
		}
	}

	missing := NewOrderHandler(testhelpers.OrderFacadeStub{GetFn: func(context.Context, string) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}})
	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/nope", missing.Get, nil, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestOrderHandlerTransition(t *testing.T) {
	caller := model.Caller{MerchantID: 1}
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{TransitionFn: func(_ context.Context, got model.Caller, id string, status model.OrderStatus) (*model.Order, error) {
		if got != caller || id != "abc" {
			t.Fatalf("unexpected call %+v %s", got, id)
		}
		if status == model.OrderStatusDelivered {
			return nil, fmt.Errorf("%w: received -> delivered", domainErrors.ErrInvalidTransition)
		}
		order := testhelpers.SampleOrder(id)
		order.Status = status
		return order, nil
	}})

	resp := performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/abc/status", handler.Transition, asCaller(caller), []byte(`{"status":"accepted"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/abc/status", handler.Transition, asCaller(caller), []byte(`{"status":"delivered"}`), jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/abc/status", handler.Transition, asCaller(caller), []byte(`{}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerHistory(t *testing.T) {
	at := time.Unix(100, 0).UTC()
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{HistoryFn: func(context.Context, model.Caller, string) ([]model.StatusChange, error) {
		return []model.StatusChange{{OrderID: "abc", From: model.OrderStatusReceived, To: model.OrderStatusAccepted, ChangedBy: 1, ChangedAt: at}}, nil
	}})
	resp := performRequest(t, http.MethodGet, "/orders/:id/history", "/orders/abc/history", handler.History, asCaller(model.Caller{MerchantID: 1}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var history []dto.StatusChangeResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil || len(history) != 1 || history[0].To != "accepted" || !history[0].ChangedAt.Equal(at) {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}

	forbidden := NewOrderHandler(testhelpers.OrderFacadeStub{HistoryFn: func(context.Context, model.Caller, string) ([]model.StatusChange, error) {
		return nil, domainErrors.ErrForbidden
	}})
	resp = performRequest(t, http.MethodGet, "/orders/:id/history", "/orders/abc/history", forbidden.History, asCaller(model.Caller{MerchantID: 2}), nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}
