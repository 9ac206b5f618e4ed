package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"go-shop/middleware"
	"go-shop/models"
	"go-shop/storage"
	"go-shop/templates"
	"go-shop/utils"
)

// StorefrontController renders the shop pages and mutates the session cart
type StorefrontController struct {
	Items  storage.ItemStore
	Carts  storage.CartStore
	Email  *utils.EmailService
	Policy models.StalePolicy
	Logger *logrus.Logger
}

// NewStorefrontController creates a new StorefrontController
func NewStorefrontController(items storage.ItemStore, carts storage.CartStore, email *utils.EmailService, policy models.StalePolicy, logger *logrus.Logger) *StorefrontController {
	return &StorefrontController{
		Items:  items,
		Carts:  carts,
		Email:  email,
		Policy: policy,
		Logger: logger,
	}
}

// cartRow resolves a cart entry to item details for rendering. Available is
// false when the item was deleted after the entry was added.
type cartRow struct {
	Entry     models.CartEntry
	Item      models.Item
	Available bool
	Subtotal  int
}

func (sc *StorefrontController) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Pages.ExecuteTemplate(w, name, data); err != nil {
		sc.Logger.WithError(err).WithField("template", name).Error("Error rendering template")
	}
}

func (sc *StorefrontController) renderError(w http.ResponseWriter, status int, message string) {
	sc.render(w, status, "error.gohtml", map[string]any{
		"Status":  status,
		"Message": message,
	})
}

// itemLookup adapts the item store to the cart total callback: absence is a
// first-class outcome, any other store failure propagates.
func (sc *StorefrontController) itemLookup(ctx context.Context) func(int) (models.Item, bool, error) {
	return func(id int) (models.Item, bool, error) {
		item, err := sc.Items.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return models.Item{}, false, nil
		}
		if err != nil {
			return models.Item{}, false, err
		}
		return item, true, nil
	}
}

// Index renders the catalog ordered by price together with the cart
func (sc *StorefrontController) Index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := sc.Items.ListByPrice(ctx)
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading catalog")
		sc.renderError(w, http.StatusInternalServerError, "Error loading catalog")
		return
	}

	entries, err := sc.Carts.Get(ctx, middleware.SessionID(r.Context()))
	if err != nil {
		// The catalog still renders without the cart badge.
		sc.Logger.WithError(err).Error("Error loading cart")
		entries = nil
	}

	sc.render(w, http.StatusOK, "index.gohtml", map[string]any{
		"Items": items,
		"Cart":  entries,
	})
}

// About renders the static about page
func (sc *StorefrontController) About(w http.ResponseWriter, r *http.Request) {
	sc.render(w, http.StatusOK, "about.gohtml", nil)
}

// CreateItem renders the create form and handles its submission. Mirroring
// the admin form contract, title and text are persisted as given without
// presence validation; only the price must parse as an integer.
func (sc *StorefrontController) CreateItem(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		sc.render(w, http.StatusOK, "create.gohtml", nil)
		return
	}

	price, err := strconv.Atoi(r.FormValue("price"))
	if err != nil {
		sc.renderError(w, http.StatusBadRequest, "Price must be a number.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := sc.Items.Create(ctx, r.FormValue("title"), price, r.FormValue("text")); err != nil {
		sc.Logger.WithError(err).Error("Error creating item")
		sc.renderError(w, http.StatusInternalServerError, "Error creating item.")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// EditItems renders the administrative item list
func (sc *StorefrontController) EditItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := sc.Items.ListByPrice(ctx)
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading catalog")
		sc.renderError(w, http.StatusInternalServerError, "Error loading catalog")
		return
	}
	sc.render(w, http.StatusOK, "edit_items.gohtml", map[string]any{"Items": items})
}

// EditItem renders the edit form and handles its submission
func (sc *StorefrontController) EditItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sc.renderError(w, http.StatusNotFound, "Item not found.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if r.Method == http.MethodGet {
		item, err := sc.Items.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			sc.renderError(w, http.StatusNotFound, "Item not found.")
			return
		}
		if err != nil {
			sc.Logger.WithError(err).WithField("id", id).Error("Error fetching item")
			sc.renderError(w, http.StatusInternalServerError, "Error fetching item.")
			return
		}
		sc.render(w, http.StatusOK, "edit_item.gohtml", map[string]any{"Item": item})
		return
	}

	price, err := strconv.Atoi(r.FormValue("price"))
	if err != nil {
		sc.renderError(w, http.StatusBadRequest, "Price must be a number.")
		return
	}

	err = sc.Items.Update(ctx, id, r.FormValue("title"), price, r.FormValue("text"))
	if errors.Is(err, storage.ErrNotFound) {
		sc.renderError(w, http.StatusNotFound, "Item not found.")
		return
	}
	if err != nil {
		sc.Logger.WithError(err).WithField("id", id).Error("Error updating item")
		sc.renderError(w, http.StatusInternalServerError, "Error editing item.")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// DeleteItem renders the confirmation page and handles the deletion
func (sc *StorefrontController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sc.renderError(w, http.StatusNotFound, "No such item.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if r.Method == http.MethodGet {
		item, err := sc.Items.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			sc.renderError(w, http.StatusNotFound, "No such item.")
			return
		}
		if err != nil {
			sc.Logger.WithError(err).WithField("id", id).Error("Error fetching item")
			sc.renderError(w, http.StatusInternalServerError, "Error fetching item.")
			return
		}
		sc.render(w, http.StatusOK, "delete_item.gohtml", map[string]any{"Item": item})
		return
	}

	err = sc.Items.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		sc.renderError(w, http.StatusNotFound, "Error deleting item.")
		return
	}
	if err != nil {
		sc.Logger.WithError(err).WithField("id", id).Error("Error deleting item")
		sc.renderError(w, http.StatusInternalServerError, "Error deleting item.")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// CartPage renders the cart with entries resolved to item details
func (sc *StorefrontController) CartPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := sc.Carts.Get(ctx, middleware.SessionID(r.Context()))
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading cart")
		sc.renderError(w, http.StatusInternalServerError, "Error loading cart")
		return
	}

	rows := make([]cartRow, 0, len(entries))
	for _, entry := range entries {
		row := cartRow{Entry: entry}
		item, err := sc.Items.Get(ctx, entry.ItemID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			// Stale entry: render the row as unavailable.
		case err != nil:
			sc.Logger.WithError(err).WithField("id", entry.ItemID).Error("Error fetching item")
			sc.renderError(w, http.StatusInternalServerError, "Error loading cart")
			return
		default:
			row.Item = item
			row.Available = true
			row.Subtotal = entry.Quantity * item.Price
		}
		rows = append(rows, row)
	}

	sc.render(w, http.StatusOK, "cart.gohtml", map[string]any{"Rows": rows})
}

// AddToCart adds one unit of the item to the session cart
func (sc *StorefrontController) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sc.renderError(w, http.StatusNotFound, "Item not found.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item, err := sc.Items.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		sc.renderError(w, http.StatusNotFound, "Item not found.")
		return
	}
	if err != nil {
		sc.Logger.WithError(err).WithField("id", id).Error("Error fetching item")
		sc.renderError(w, http.StatusInternalServerError, "Error adding to cart.")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	entries, err := sc.Carts.Get(ctx, sessionID)
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading cart")
		sc.renderError(w, http.StatusInternalServerError, "Error adding to cart.")
		return
	}

	entries = models.AddEntry(entries, item.ID)
	if err := sc.Carts.Put(ctx, sessionID, entries); err != nil {
		sc.Logger.WithError(err).Error("Error saving cart")
		sc.renderError(w, http.StatusInternalServerError, "Error adding to cart.")
		return
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

// UpdateCart sets the quantity of an existing cart entry
func (sc *StorefrontController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sc.renderError(w, http.StatusBadRequest, "Error updating quantity.")
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		sc.renderError(w, http.StatusBadRequest, "Error updating quantity.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessionID := middleware.SessionID(r.Context())
	entries, err := sc.Carts.Get(ctx, sessionID)
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading cart")
		sc.renderError(w, http.StatusInternalServerError, "Error updating quantity.")
		return
	}

	entries, err = models.SetQuantity(entries, id, quantity)
	if err != nil {
		sc.renderError(w, http.StatusBadRequest, "Error updating quantity.")
		return
	}
	if err := sc.Carts.Put(ctx, sessionID, entries); err != nil {
		sc.Logger.WithError(err).Error("Error saving cart")
		sc.renderError(w, http.StatusInternalServerError, "Error updating quantity.")
		return
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

// RemoveFromCart removes the entry; an absent id is a silent no-op
func (sc *StorefrontController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Redirect(w, r, "/cart", http.StatusFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessionID := middleware.SessionID(r.Context())
	entries, err := sc.Carts.Get(ctx, sessionID)
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading cart")
		sc.renderError(w, http.StatusInternalServerError, "Error removing from cart.")
		return
	}

	if err := sc.Carts.Put(ctx, sessionID, models.RemoveEntry(entries, id)); err != nil {
		sc.Logger.WithError(err).Error("Error saving cart")
		sc.renderError(w, http.StatusInternalServerError, "Error removing from cart.")
		return
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

// Checkout renders the total on GET and confirms the order on POST. The
// confirmation clears the cart unconditionally and optionally mails a
// receipt.
func (sc *StorefrontController) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := middleware.SessionID(r.Context())
	entries, err := sc.Carts.Get(ctx, sessionID)
	if err != nil {
		sc.Logger.WithError(err).Error("Error loading cart")
		sc.renderError(w, http.StatusInternalServerError, "Error loading cart")
		return
	}

	if r.Method == http.MethodGet {
		total, err := models.Total(entries, sc.itemLookup(ctx), sc.Policy)
		if errors.Is(err, models.ErrStaleEntry) {
			sc.renderError(w, http.StatusConflict, "An item in your cart is no longer available. Please remove it and try again.")
			return
		}
		if err != nil {
			sc.Logger.WithError(err).Error("Error computing total")
			sc.renderError(w, http.StatusInternalServerError, "Error computing total")
			return
		}
		sc.render(w, http.StatusOK, "checkout.gohtml", map[string]any{"Total": total})
		return
	}

	if email := r.FormValue("email"); email != "" && sc.Email != nil && sc.Email.Enabled() {
		// Receipt failures must not block the checkout.
		total, err := models.Total(entries, sc.itemLookup(ctx), sc.Policy)
		if err != nil {
			sc.Logger.WithError(err).Warn("Skipping receipt email, total unavailable")
		} else if err := sc.Email.SendReceiptEmail(email, len(entries), total); err != nil {
			sc.Logger.WithError(err).Warn("Error sending receipt email")
		}
	}

	if err := sc.Carts.Clear(ctx, sessionID); err != nil {
		sc.Logger.WithError(err).Error("Error clearing cart")
		sc.renderError(w, http.StatusInternalServerError, "Error completing checkout")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// NotFound renders the custom 404 page for unmapped routes
func (sc *StorefrontController) NotFound(w http.ResponseWriter, r *http.Request) {
	sc.render(w, http.StatusNotFound, "404.gohtml", nil)
}
