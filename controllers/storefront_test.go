package controllers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shop/middleware"
	"go-shop/models"
	"go-shop/storage/memory"
)

const testSession = "test-session"

// doPage performs a page request under a fixed session cookie so cart state
// is observable across requests.
func doPage(router *mux.Router, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: testSession})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestIndexOrdersByPriceAscending(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	ctx := context.Background()
	items.Create(ctx, "Expensive", 30, "x")
	items.Create(ctx, "Cheap", 10, "x")
	items.Create(ctx, "Middle", 20, "x")

	rr := doPage(router, "GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	cheap := strings.Index(body, "Cheap")
	middle := strings.Index(body, "Middle")
	expensive := strings.Index(body, "Expensive")
	require.True(t, cheap >= 0 && middle >= 0 && expensive >= 0)
	assert.Less(t, cheap, middle)
	assert.Less(t, middle, expensive)
}

func TestAboutPage(t *testing.T) {
	router, _, _ := newTestApp(t, models.StaleReject)

	rr := doPage(router, "GET", "/about", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateItemForm(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)

	rr := doPage(router, "GET", "/create", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doPage(router, "POST", "/create", url.Values{
		"title": {"Mug"},
		"price": {"12"},
		"text":  {"A mug."},
	})
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	stored, err := items.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Mug", stored[0].Title)
}

func TestCreateItemFormBadPrice(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)

	rr := doPage(router, "POST", "/create", url.Values{
		"title": {"Mug"},
		"price": {"abc"},
		"text":  {"A mug."},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	stored, err := items.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestEditItem(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	created, err := items.Create(context.Background(), "Mug", 12, "A mug.")
	require.NoError(t, err)

	rr := doPage(router, "GET", "/edit_item/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Mug")

	rr = doPage(router, "POST", "/edit_item/1", url.Values{
		"title": {"Cup"},
		"price": {"15"},
		"text":  {"A cup."},
	})
	require.Equal(t, http.StatusFound, rr.Code)

	got, err := items.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", got.Title)
	assert.Equal(t, 15, got.Price)
}

func TestEditItemNotFound(t *testing.T) {
	router, _, _ := newTestApp(t, models.StaleReject)

	rr := doPage(router, "GET", "/edit_item/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteItemPage(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	created, err := items.Create(context.Background(), "Mug", 12, "A mug.")
	require.NoError(t, err)

	// GET renders the confirmation page without deleting.
	rr := doPage(router, "GET", "/delete_item/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Mug")
	_, err = items.Get(context.Background(), created.ID)
	require.NoError(t, err)

	rr = doPage(router, "POST", "/delete_item/1", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	_, err = items.Get(context.Background(), created.ID)
	assert.Error(t, err)
}

func TestDeleteItemPageNotFound(t *testing.T) {
	router, _, _ := newTestApp(t, models.StaleReject)

	rr := doPage(router, "POST", "/delete_item/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddToCartIncrementsQuantity(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")

	rr := doPage(router, "POST", "/add_to_cart/1", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/cart", rr.Header().Get("Location"))

	rr = doPage(router, "POST", "/add_to_cart/1", nil)
	require.Equal(t, http.StatusFound, rr.Code)

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.CartEntry{ItemID: 1, Quantity: 2}, entries[0])
}

func TestAddToCartDistinctItems(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	items.Create(context.Background(), "Cup", 15, "A cup.")

	doPage(router, "POST", "/add_to_cart/1", nil)
	doPage(router, "POST", "/add_to_cart/2", nil)

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ItemID)
	assert.Equal(t, 2, entries[1].ItemID)
}

func TestAddToCartMissingItem(t *testing.T) {
	router, _, carts := newTestApp(t, models.StaleReject)

	rr := doPage(router, "POST", "/add_to_cart/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateCart(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "POST", "/update_cart/1", url.Values{"quantity": {"5"}})
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/cart", rr.Header().Get("Location"))

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Quantity)
}

func TestUpdateCartRejectsNonPositive(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	for _, quantity := range []string{"0", "-1", "abc"} {
		rr := doPage(router, "POST", "/update_cart/1", url.Values{"quantity": {quantity}})
		assert.Equal(t, http.StatusBadRequest, rr.Code, "quantity %q", quantity)
	}

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Quantity, "rejected updates must not mutate the entry")
}

func TestUpdateCartUnknownEntry(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")

	rr := doPage(router, "POST", "/update_cart/1", url.Values{"quantity": {"2"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemoveFromCart(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "GET", "/remove_from_cart/1", nil)
	require.Equal(t, http.StatusFound, rr.Code)

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveFromCartAbsentIsNoOp(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "GET", "/remove_from_cart/999", nil)
	require.Equal(t, http.StatusFound, rr.Code)

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ItemID)
}

func TestCartPageShowsItems(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "GET", "/cart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Mug")
}

func TestCartPageMarksStaleEntries(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)
	require.NoError(t, items.Delete(context.Background(), 1))

	rr := doPage(router, "GET", "/cart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "no longer available")
}

func TestCheckoutTotal(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	ctx := context.Background()
	items.Create(ctx, "Mug", 10, "A mug.")
	items.Create(ctx, "Cup", 20, "A cup.")
	carts.Put(ctx, testSession, []models.CartEntry{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 3},
	})

	rr := doPage(router, "GET", "/checkout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Total: 80")
}

func TestCheckoutTotalReflectsPriceDrift(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	ctx := context.Background()
	items.Create(ctx, "Mug", 10, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "GET", "/checkout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Total: 20")

	require.NoError(t, items.Update(ctx, 1, "Mug", 25, "A mug."))

	rr = doPage(router, "GET", "/checkout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Total: 50")
}

func TestCheckoutStalePolicies(t *testing.T) {
	seed := func(router *mux.Router, items *memory.ItemStore) {
		ctx := context.Background()
		items.Create(ctx, "Mug", 10, "A mug.")
		items.Create(ctx, "Cup", 20, "A cup.")
		doPage(router, "POST", "/add_to_cart/1", nil)
		doPage(router, "POST", "/add_to_cart/2", nil)
		require.NoError(t, items.Delete(ctx, 2))
	}

	t.Run("reject", func(t *testing.T) {
		router, items, _ := newTestApp(t, models.StaleReject)
		seed(router, items)

		rr := doPage(router, "GET", "/checkout", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("skip", func(t *testing.T) {
		router, items, _ := newTestApp(t, models.StaleSkip)
		seed(router, items)

		rr := doPage(router, "GET", "/checkout", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Total: 10")
	})

	t.Run("zero", func(t *testing.T) {
		router, items, _ := newTestApp(t, models.StaleZero)
		seed(router, items)

		rr := doPage(router, "GET", "/checkout", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Total: 10")
	})
}

func TestCheckoutConfirmationClearsCart(t *testing.T) {
	router, items, carts := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "POST", "/checkout", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	entries, err := carts.Get(context.Background(), testSession)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The cart page confirms zero entries afterwards.
	rr = doPage(router, "GET", "/cart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "empty")
}

func TestUnmappedRouteRendersNotFoundPage(t *testing.T) {
	router, _, _ := newTestApp(t, models.StaleReject)

	rr := doPage(router, "GET", "/no/such/page", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
}

func TestCartsAreScopedToSession(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	// A different session sees an empty cart.
	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "other-session"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "empty")
}

func TestCartBadgeOnIndex(t *testing.T) {
	router, items, _ := newTestApp(t, models.StaleReject)
	items.Create(context.Background(), "Mug", 12, "A mug.")
	doPage(router, "POST", "/add_to_cart/1", nil)

	rr := doPage(router, "GET", "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), fmt.Sprintf("Cart (%d)", 1))
}
