package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"catalog-console/app/controller"
	"catalog-console/models"
)

type Controllers struct {
	Products        *controller.ProductController
	Categories      *controller.CollectionController[models.Category]
	Brands          *controller.CollectionController[models.Brand]
	Banners         *controller.BannerController
	Admins          *controller.AdminController
	ContactMessages *controller.ContactMessageController
	Catalogs        *controller.CatalogController
	Assets          *controller.AssetController
}

// collectionHandlers is the CRUD surface shared by every stored entity
type collectionHandlers interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	BulkCreate(w http.ResponseWriter, r *http.Request)
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func registerCollection(mux *http.ServeMux, prefix string, c collectionHandlers) {
	mux.HandleFunc("GET "+prefix, c.List)
	mux.HandleFunc("POST "+prefix, c.Create)
	mux.HandleFunc("POST "+prefix+"/bulk", c.BulkCreate)
	mux.HandleFunc("GET "+prefix+"/{id}", c.Get)
	mux.HandleFunc("PATCH "+prefix+"/{id}", c.Update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", c.Delete)
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	mux.HandleFunc("GET /ping", pingHandler)

	// Asset retrieval, open to any origin
	mux.HandleFunc("GET /getImageBase64", controllers.Assets.GetImageBase64)
	mux.HandleFunc("OPTIONS /getImageBase64", controllers.Assets.GetImageBase64)

	registerCollection(mux, "/admin/products", controllers.Products)
	mux.HandleFunc("GET /admin/products/best-sellers", controllers.Products.BestSellers)

	registerCollection(mux, "/admin/categories", controllers.Categories)
	registerCollection(mux, "/admin/brands", controllers.Brands)
	registerCollection(mux, "/admin/banners", controllers.Banners)
	registerCollection(mux, "/admin/admins", controllers.Admins)

	registerCollection(mux, "/admin/contact-messages", controllers.ContactMessages)
	mux.HandleFunc("PATCH /admin/contact-messages/{id}/status", controllers.ContactMessages.UpdateStatus)

	// Catalogs: definitions, generation, preview and builder edits
	registerCollection(mux, "/admin/catalogs", controllers.Catalogs)
	mux.HandleFunc("GET /admin/catalogs/{id}/pdf", controllers.Catalogs.DownloadPDF)
	mux.HandleFunc("POST /admin/catalogs/{id}/generate", controllers.Catalogs.GenerateFromSnapshot)
	mux.HandleFunc("GET /admin/catalogs/{id}/preview", controllers.Catalogs.Preview)
	mux.HandleFunc("POST /admin/catalogs/{id}/sync", controllers.Catalogs.Sync)
	mux.HandleFunc("PATCH /admin/catalogs/{id}/categories/{categoryId}", controllers.Catalogs.UpdateCategoryOrder)
	mux.HandleFunc("PATCH /admin/catalogs/{id}/categories/{categoryId}/products/{productId}", controllers.Catalogs.UpdateProductOrder)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogRequests logs method, path, status and duration of every request
func LogRequests(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("📥 Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
