package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"go-shop/models"
	"go-shop/storage"
)

// APIController handles the JSON catalog endpoints
type APIController struct {
	Store  storage.ItemStore
	Logger *logrus.Logger
}

// NewAPIController creates a new APIController
func NewAPIController(store storage.ItemStore, logger *logrus.Logger) *APIController {
	return &APIController{
		Store:  store,
		Logger: logger,
	}
}

// itemPayload is the create/update request body. Pointer fields distinguish
// absent from zero-valued input.
type itemPayload struct {
	Title *string `json:"title"`
	Price *int    `json:"price"`
	Text  *string `json:"text"`
}

func (p itemPayload) complete() bool {
	return p.Title != nil && *p.Title != "" &&
		p.Price != nil &&
		p.Text != nil && *p.Text != ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// GetItems retrieves the full catalog
func (ac *APIController) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := ac.Store.List(ctx)
	if err != nil {
		ac.Logger.WithError(err).Error("Error fetching items")
		writeError(w, http.StatusInternalServerError, "Error fetching items")
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItem retrieves a single item by ID
func (ac *APIController) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item, err := ac.Store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		ac.Logger.WithError(err).WithField("id", id).Error("Error fetching item")
		writeError(w, http.StatusInternalServerError, "Error fetching item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// AddItem handles adding a new item. All three fields must be present and
// non-empty; the price is accepted as given, not range-checked.
func (ac *APIController) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !payload.complete() {
		writeError(w, http.StatusBadRequest, "Fields are not filled in correctly")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ac.Store.Create(ctx, *payload.Title, *payload.Price, *payload.Text); err != nil {
		ac.Logger.WithError(err).Error("Error creating item")
		writeError(w, http.StatusInternalServerError, "Error creating item")
		return
	}
	writeMessage(w, http.StatusCreated, "Item added")
}

// UpdateItem replaces title, price and text of an existing item
func (ac *APIController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "No such item")
		return
	}

	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !payload.complete() {
		writeError(w, http.StatusBadRequest, "Fields are not filled in correctly")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ac.Store.Update(ctx, id, *payload.Title, *payload.Price, *payload.Text)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No such item")
		return
	}
	if err != nil {
		ac.Logger.WithError(err).WithField("id", id).Error("Error updating item")
		writeError(w, http.StatusInternalServerError, "Error updating item")
		return
	}
	writeMessage(w, http.StatusOK, "Item updated")
}

// DeleteItem physically removes an item
func (ac *APIController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "No such item")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ac.Store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No such item")
		return
	}
	if err != nil {
		ac.Logger.WithError(err).WithField("id", id).Error("Error deleting item")
		writeError(w, http.StatusInternalServerError, "Error deleting item")
		return
	}
	writeMessage(w, http.StatusOK, "Deleted")
}
