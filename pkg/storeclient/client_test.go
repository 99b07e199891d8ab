package storeclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal in-memory storefront backend. It records each
// request so tests can assert on call counts and bodies.
type fakeStore struct {
	mu       sync.Mutex
	cart     Cart
	requests []recordedRequest

	failNextWith int // non-zero: respond with this status once
	rotate       bool
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
	Bearer string
}

func newFakeStore() *fakeStore {
	return &fakeStore{cart: Cart{CartItems: []CartItem{}, Subtotal: "0.00"}}
}

func (s *fakeStore) setCart(cart Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

func (s *fakeStore) calls(method, path string) []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *fakeStore) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()

		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Bearer: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		s.requests = append(s.requests, rec)

		if s.rotate {
			w.Header().Set("Access-Token", "rotated-access")
			w.Header().Set("Refresh-Token", "rotated-refresh")
		}

		if s.failNextWith != 0 {
			status := s.failNextWith
			s.failNextWith = 0
			s.mu.Unlock()
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
			return
		}

		cart := s.cart
		s.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/carts":
			_ = json.NewEncoder(w).Encode(cart)
		case r.Method == http.MethodPost && r.URL.Path == "/carts/items":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(cart)
		case r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/orders/submit":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Order{ID: uuid.New(), Status: "pending"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, store *fakeStore) (*Client, *MemoryTokenStore) {
	t.Helper()

	srv := httptest.NewServer(store.handler())
	t.Cleanup(srv.Close)

	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.Save("initial-access", "initial-refresh"))

	client, err := New(Config{BaseURL: srv.URL, Tokens: tokens})
	require.NoError(t, err)
	return client, tokens
}

func sampleCart(itemID uuid.UUID, quantity uint, price string) Cart {
	p := decimal.RequireFromString(price)
	sub := p.Mul(decimal.NewFromInt(int64(quantity)))
	return Cart{
		CartItems: []CartItem{{
			ID:            itemID,
			ProductTypeID: uuid.New(),
			Quantity:      quantity,
			Price:         p,
		}},
		TotalItem: quantity,
		Subtotal:  sub.StringFixed(2),
	}
}

func TestCartIsCachedUntilInvalidated(t *testing.T) {
	store := newFakeStore()
	store.setCart(sampleCart(uuid.New(), 2, "14.99"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	first, err := client.Cart(ctx)
	require.NoError(t, err)
	second, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Len(t, store.calls(http.MethodGet, "/carts"), 1, "second read must come from cache")
}

func TestAddItemReplacesCacheWithServerCart(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 3, "16.49"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	cart, err := client.AddItem(ctx, uuid.New(), 3)
	require.NoError(t, err)
	require.Equal(t, uint(3), cart.TotalItem)
	require.Equal(t, "49.47", cart.Subtotal)

	cached, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Equal(t, cart, cached)
	require.Empty(t, store.calls(http.MethodGet, "/carts"), "add response seeds the cache")
}

func TestAddItemValidationBeforeNetwork(t *testing.T) {
	store := newFakeStore()
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	_, err := client.AddItem(ctx, uuid.Nil, 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = client.AddItem(ctx, uuid.New(), 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = client.AddItem(ctx, uuid.New(), -2)
	require.ErrorIs(t, err, ErrValidation)

	require.Empty(t, store.calls(http.MethodPost, "/carts/items"),
		"invalid input must not produce a request")
}

func TestFailedAddLeavesCacheUntouched(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 1, "9.99"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	before, err := client.Cart(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	store.failNextWith = http.StatusConflict
	store.mu.Unlock()

	_, err = client.AddItem(ctx, uuid.New(), 100)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)

	after, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Same(t, before, after, "failed add must not disturb the cached cart")
}

func TestUpdateQuantityClampsAndInvalidates(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 2, "14.99"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	_, err := client.Cart(ctx)
	require.NoError(t, err)

	require.NoError(t, client.UpdateQuantity(ctx, itemID, -5, nil))

	patches := store.calls(http.MethodPatch, "/carts/items/"+itemID.String()+"/quantity")
	require.Len(t, patches, 1)
	require.Equal(t, float64(1), patches[0].Body["quantity"], "sub-1 target clamps to 1")

	store.setCart(sampleCart(itemID, 1, "14.99"))
	cart, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Equal(t, uint(1), cart.TotalItem, "read after mutation must reflect server state")
	require.Len(t, store.calls(http.MethodGet, "/carts"), 2, "invalidation forces one refetch")
}

func TestUpdateQuantityFailureKeepsCache(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 2, "14.99"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	before, err := client.Cart(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	store.failNextWith = http.StatusNotFound
	store.mu.Unlock()

	err = client.UpdateQuantity(ctx, itemID, 5, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	after, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Same(t, before, after, "failed mutation must not invalidate")
}

func TestRemoveItemConfirmationGate(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 2, "14.99"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	patchPath := "/carts/items/" + itemID.String() + "/quantity"

	// nil confirmer counts as declined
	removed, err := client.RemoveItem(ctx, itemID, nil)
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = client.RemoveItem(ctx, itemID, func(CartItem) bool { return false })
	require.NoError(t, err)
	require.False(t, removed)
	require.Empty(t, store.calls(http.MethodPatch, patchPath),
		"declined removal must not reach the server")

	var prompted CartItem
	removed, err = client.RemoveItem(ctx, itemID, func(it CartItem) bool {
		prompted = it
		return true
	})
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, itemID, prompted.ID, "confirmer sees the item being removed")

	patches := store.calls(http.MethodPatch, patchPath)
	require.Len(t, patches, 1)
	require.Equal(t, float64(0), patches[0].Body["quantity"])
	require.Equal(t, true, patches[0].Body["confirmed"])
}

func TestUpdateQuantityZeroRoutesThroughRemoval(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 2, "14.99"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	confirmed := false
	err := client.UpdateQuantity(ctx, itemID, 0, func(CartItem) bool {
		confirmed = true
		return true
	})
	require.NoError(t, err)
	require.True(t, confirmed, "zero quantity must go through the confirmation gate")

	patches := store.calls(http.MethodPatch, "/carts/items/"+itemID.String()+"/quantity")
	require.Len(t, patches, 1)
	require.Equal(t, true, patches[0].Body["confirmed"])
}

func TestTokenRotationIsPersisted(t *testing.T) {
	store := newFakeStore()
	store.rotate = true
	client, tokens := newTestClient(t, store)
	ctx := context.Background()

	_, err := client.Cart(ctx)
	require.NoError(t, err)

	access, refresh := tokens.Tokens()
	require.Equal(t, "rotated-access", access)
	require.Equal(t, "rotated-refresh", refresh)

	client.cart.invalidate()
	_, err = client.Cart(ctx)
	require.NoError(t, err)

	gets := store.calls(http.MethodGet, "/carts")
	require.Len(t, gets, 2)
	require.Equal(t, "Bearer rotated-access", gets[1].Bearer,
		"next request must carry the rotated token")
}

func TestUnauthorizedCarriesLoginRedirect(t *testing.T) {
	store := newFakeStore()
	client, _ := newTestClient(t, store)
	store.mu.Lock()
	store.failNextWith = http.StatusUnauthorized
	store.mu.Unlock()

	_, err := client.Cart(context.Background())
	var unauth *UnauthorizedError
	require.ErrorAs(t, err, &unauth)
	require.Equal(t, "/login?redirectTo="+"%2Fcarts", unauth.RedirectTo)

	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr), "401 is its own class, not a generic API error")
}

func TestTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 20 * time.Millisecond},
	})
	require.NoError(t, err)

	_, err = client.Cart(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
}

func TestSubmitOrderInvalidatesCart(t *testing.T) {
	store := newFakeStore()
	itemID := uuid.New()
	store.setCart(sampleCart(itemID, 1, "47.97"))
	client, _ := newTestClient(t, store)
	ctx := context.Background()

	_, err := client.Cart(ctx)
	require.NoError(t, err)

	order, err := client.SubmitOrder(ctx, SubmitOrderRequest{
		FullName:     "Test User",
		Email:        "test@example.com",
		AddressLine1: "1 Main St",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", order.Status)

	store.setCart(Cart{CartItems: []CartItem{}, Subtotal: "0.00"})
	cart, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Empty(t, cart.CartItems, "submission empties the cart on next read")

	_, err = client.SubmitOrder(ctx, SubmitOrderRequest{FullName: "No Address"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrdersListUnwrapsEnvelope(t *testing.T) {
	orderID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "pending", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []Order{{ID: orderID, Status: "pending"}},
			"meta": Meta{Page: 2, Total: 11, TotalPages: 2},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	orders, meta, err := client.Orders(context.Background(), 2, OrderFilters{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, orderID, orders[0].ID)
	require.Equal(t, int64(11), meta.Total)
	require.Equal(t, 2, meta.TotalPages)
}
