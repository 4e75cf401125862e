package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-console/repository"
)

// CollectionController serves the CRUD endpoints of one stored entity type
type CollectionController[T any] struct {
	name   string
	repo   repository.Collection[T]
	logger *zap.Logger
}

// NewCollectionController creates a CollectionController; name is used in logs and messages
func NewCollectionController[T any](name string, repo repository.Collection[T], logger *zap.Logger) *CollectionController[T] {
	return &CollectionController[T]{
		name:   name,
		repo:   repo,
		logger: logger.With(zap.String("collection", name)),
	}
}

// List handles GET /admin/<name>
func (c *CollectionController[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.repo.GetAll(r.Context())
	if err != nil {
		c.fail(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, items, c.logger)
}

// Get handles GET /admin/<name>/{id}
func (c *CollectionController[T]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := c.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		c.fail(w, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, item, c.logger)
}

// Create handles POST /admin/<name>
func (c *CollectionController[T]) Create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		c.logger.Warn("❌ Create: Failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	id, err := c.repo.Create(r.Context(), item)
	if err != nil {
		c.fail(w, "Create", err)
		return
	}

	c.logger.Info("✅ Create: Document created", zap.String("id", id))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id}, c.logger)
}

// Update handles PATCH /admin/<name>/{id}; the body holds the fields to change
func (c *CollectionController[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var changes map[string]any
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		c.logger.Warn("❌ Update: Failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(changes) == 0 {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}

	if err := c.repo.Update(r.Context(), id, changes); err != nil {
		c.fail(w, "Update", err)
		return
	}

	item, err := c.repo.GetByID(r.Context(), id)
	if err != nil {
		c.fail(w, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, item, c.logger)
}

// Delete handles DELETE /admin/<name>/{id}
func (c *CollectionController[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.fail(w, "Delete", err)
		return
	}
	c.logger.Info("🗑️ Delete: Document deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// BulkCreate handles POST /admin/<name>/bulk
func (c *CollectionController[T]) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var items []T
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		c.logger.Warn("❌ BulkCreate: Failed to decode request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := c.repo.BulkCreate(r.Context(), items); err != nil {
		c.fail(w, "BulkCreate", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"count": len(items)}, c.logger)
}

// fail logs err and writes the matching status
func (c *CollectionController[T]) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		http.Error(w, fmt.Sprintf("%s not found", c.name), status)
		return
	}
	c.logger.Error("❌ "+op+": Request failed", zap.Error(err))
	http.Error(w, fmt.Sprintf("Failed to %s %s", verb(op), c.name), status)
}

func verb(op string) string {
	switch op {
	case "List", "Get":
		return "fetch"
	case "BulkCreate":
		return "create"
	}
	return strings.ToLower(op)
}
