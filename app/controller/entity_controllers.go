package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-console/models"
	"catalog-console/repository"
)

// ProductController adds category and best-seller queries to the product collection
type ProductController struct {
	*CollectionController[models.Product]
	repo repository.ProductRepositoryInterface
}

// NewProductController creates a new ProductController
func NewProductController(repo repository.ProductRepositoryInterface, logger *zap.Logger) *ProductController {
	return &ProductController{
		CollectionController: NewCollectionController[models.Product]("product", repo, logger),
		repo:                 repo,
	}
}

// List handles GET /admin/products[?category=<id>]
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimSpace(r.URL.Query().Get("category"))
	if categoryID == "" {
		c.CollectionController.List(w, r)
		return
	}

	products, err := c.repo.GetByCategory(r.Context(), categoryID)
	if err != nil {
		c.fail(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, products, c.logger)
}

// BestSellers handles GET /admin/products/best-sellers
func (c *ProductController) BestSellers(w http.ResponseWriter, r *http.Request) {
	products, err := c.repo.GetBestSellers(r.Context())
	if err != nil {
		c.fail(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, products, c.logger)
}

// BannerController adds the per-page query to the banner collection
type BannerController struct {
	*CollectionController[models.Banner]
	repo repository.BannerRepositoryInterface
}

// NewBannerController creates a new BannerController
func NewBannerController(repo repository.BannerRepositoryInterface, logger *zap.Logger) *BannerController {
	return &BannerController{
		CollectionController: NewCollectionController[models.Banner]("banner", repo, logger),
		repo:                 repo,
	}
}

// List handles GET /admin/banners[?page=<page>]
func (c *BannerController) List(w http.ResponseWriter, r *http.Request) {
	page := strings.TrimSpace(r.URL.Query().Get("page"))
	if page == "" {
		c.CollectionController.List(w, r)
		return
	}

	banners, err := c.repo.GetByPage(r.Context(), page)
	if err != nil {
		c.fail(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, banners, c.logger)
}

// AdminController adds lookup by email to the administrator collection
type AdminController struct {
	*CollectionController[models.Admin]
	repo repository.AdminRepositoryInterface
}

// NewAdminController creates a new AdminController
func NewAdminController(repo repository.AdminRepositoryInterface, logger *zap.Logger) *AdminController {
	return &AdminController{
		CollectionController: NewCollectionController[models.Admin]("admin", repo, logger),
		repo:                 repo,
	}
}

// List handles GET /admin/admins[?email=<email>]; an email filter yields at most one element
func (c *AdminController) List(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		c.CollectionController.List(w, r)
		return
	}

	admin, err := c.repo.GetByEmail(r.Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusOK, []models.Admin{}, c.logger)
		return
	}
	if err != nil {
		c.fail(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, []models.Admin{*admin}, c.logger)
}

// ContactMessageController adds status changes to the contact message collection
type ContactMessageController struct {
	*CollectionController[models.ContactMessage]
	repo repository.ContactMessageRepositoryInterface
}

// NewContactMessageController creates a new ContactMessageController
func NewContactMessageController(repo repository.ContactMessageRepositoryInterface, logger *zap.Logger) *ContactMessageController {
	return &ContactMessageController{
		CollectionController: NewCollectionController[models.ContactMessage]("contact message", repo, logger),
		repo:                 repo,
	}
}

// UpdateStatus handles PATCH /admin/contact-messages/{id}/status
func (c *ContactMessageController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.ContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if !models.ValidMessageStatus(req.Status) {
		http.Error(w, "status must be one of new, read, replied", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	if err := c.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		c.fail(w, "Update", err)
		return
	}

	c.logger.Info("✅ UpdateStatus: Message status changed", zap.String("id", id), zap.String("status", req.Status))
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status}, c.logger)
}
