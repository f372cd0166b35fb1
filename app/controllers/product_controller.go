package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/bind"
	"github.com/shashiranjanraj/kirana/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// multipartMemory is the in-memory threshold for multipart parsing; photos
// above it spill to temp files before being read back.
const multipartMemory = 4 << 20

// ProductController serves catalog management, browsing and payment.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// parseProductForm reads the multipart create/update form. It validates
// field presence with the same field-specific messages the storefront
// client displays, and enforces the photo size cap before buffering it.
func parseProductForm(w http.ResponseWriter, r *http.Request) (services.ProductInput, bool) {
	var in services.ProductInput

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return in, false
	}

	in.Name = strings.TrimSpace(r.FormValue("name"))
	in.Description = strings.TrimSpace(r.FormValue("description"))

	if in.Name == "" {
		response.Error(w, http.StatusBadRequest, "Name is required")
		return in, false
	}
	if in.Description == "" {
		response.Error(w, http.StatusBadRequest, "Description is required")
		return in, false
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Valid price is required")
		return in, false
	}
	in.Price = price

	category, err := primitive.ObjectIDFromHex(r.FormValue("category"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Category is required")
		return in, false
	}
	in.Category = category

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Valid quantity is required")
		return in, false
	}
	in.Quantity = quantity

	shipping := r.FormValue("shipping")
	in.Shipping = shipping == "true" || shipping == "1"

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// photo is optional
	case err != nil:
		response.Error(w, http.StatusBadRequest, "Invalid photo upload")
		return in, false
	default:
		defer file.Close()

		if header.Size > models.MaxPhotoBytes {
			response.Error(w, http.StatusBadRequest, "Photo should be less than 1MB")
			return in, false
		}

		data, err := io.ReadAll(file)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid photo upload")
			return in, false
		}

		in.Photo = &models.Photo{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	return in, true
}

// Create handles POST /create-product (admin, multipart).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := parseProductForm(w, r)
	if !ok {
		return
	}

	product, err := c.products.Create(r.Context(), in)
	if errors.Is(err, services.ErrPhotoTooLarge) {
		response.Error(w, http.StatusBadRequest, "Photo should be less than 1MB")
		return
	}
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}

	response.Created(w, "Product Created Successfully", response.M{"product": product})
}

// Update handles PUT /update-product/{pid} (admin, multipart).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	pid, ok := objectIDParam(w, r, "pid")
	if !ok {
		return
	}

	in, ok := parseProductForm(w, r)
	if !ok {
		return
	}

	product, err := c.products.Update(r.Context(), pid, in)
	if errors.Is(err, services.ErrPhotoTooLarge) {
		response.Error(w, http.StatusBadRequest, "Photo should be less than 1MB")
		return
	}
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}

	response.OK(w, "Product Updated Successfully", response.M{"product": product})
}

// List handles GET /get-product — the 12 newest products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.Latest(r.Context())
	if err != nil {
		fail(w, r, err, "Unable to fetch products")
		return
	}
	response.OK(w, "All Products", response.M{
		"products":   products,
		"totalCount": len(products),
	})
}

// Single handles GET /get-singleProduct/{slug}.
func (c *ProductController) Single(w http.ResponseWriter, r *http.Request) {
	product, err := c.products.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}
	response.OK(w, "Single Product Fetched", response.M{"product": product})
}

// Photo handles GET /get-photo/{pid} — streams the stored payload.
func (c *ProductController) Photo(w http.ResponseWriter, r *http.Request) {
	pid, ok := objectIDParam(w, r, "pid")
	if !ok {
		return
	}

	photo, err := c.products.Photo(r.Context(), pid)
	if err != nil {
		fail(w, r, err, "Photo not found")
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data) //nolint:errcheck
}

// Delete handles DELETE /delete-product/{pid} (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	pid, ok := objectIDParam(w, r, "pid")
	if !ok {
		return
	}

	if err := c.products.Delete(r.Context(), pid); err != nil {
		fail(w, r, err, "Product not found")
		return
	}
	response.OK(w, "Product Deleted Successfully", nil)
}

type filterInput struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// Filter handles POST /product-filters. Empty inputs for both clauses
// return the full catalog.
func (c *ProductController) Filter(w http.ResponseWriter, r *http.Request) {
	var in filterInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(in.Radio) != 0 && len(in.Radio) != 2 {
		response.Error(w, http.StatusBadRequest, "Price range must be two values")
		return
	}

	categories := make([]primitive.ObjectID, 0, len(in.Checked))
	for _, hex := range in.Checked {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid category id")
			return
		}
		categories = append(categories, oid)
	}

	products, err := c.products.Filter(r.Context(), categories, in.Radio)
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}
	response.OK(w, "Filtered Products", response.M{"products": products})
}

// Count handles GET /product-count — an approximate total.
func (c *ProductController) Count(w http.ResponseWriter, r *http.Request) {
	total, err := c.products.Count(r.Context())
	if err != nil {
		fail(w, r, err, "Unable to count products")
		return
	}
	response.OK(w, "", response.M{"total": total})
}

// Page handles GET /product-list/{page} — 10 per page, 1-based.
func (c *ProductController) Page(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.ParseInt(chi.URLParam(r, "page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	products, err := c.products.Page(r.Context(), page)
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}
	response.OK(w, "", response.M{"products": products})
}

// Search handles GET /search/{keyword}.
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	results, err := c.products.Search(r.Context(), chi.URLParam(r, "keyword"))
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}
	response.JSON(w, http.StatusOK, results)
}

// Related handles GET /related-product/{pid}/{cid}.
func (c *ProductController) Related(w http.ResponseWriter, r *http.Request) {
	pid, ok := objectIDParam(w, r, "pid")
	if !ok {
		return
	}
	cid, ok := objectIDParam(w, r, "cid")
	if !ok {
		return
	}

	products, err := c.products.Related(r.Context(), pid, cid)
	if err != nil {
		fail(w, r, err, "Product not found")
		return
	}
	response.OK(w, "", response.M{"products": products})
}

// ByCategory handles GET /product-category/{slug}.
func (c *ProductController) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, products, err := c.products.ByCategorySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err, "Category not found")
		return
	}
	response.OK(w, "", response.M{
		"category": category,
		"products": products,
	})
}

// Token handles GET /braintree/token — proxies the gateway client token.
func (c *ProductController) Token(w http.ResponseWriter, r *http.Request) {
	token, err := c.products.ClientToken(r.Context())
	if err != nil {
		fail(w, r, err, "Token unavailable")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"clientToken": token})
}

type paymentInput struct {
	Cart  []models.CartItem `json:"cart" validate:"required"`
	Nonce string            `json:"nonce" validate:"required"`
}

// Payments handles POST /braintree/payments (auth). On gateway failure no
// order is persisted and the failure surfaces as a 500.
func (c *ProductController) Payments(w http.ResponseWriter, r *http.Request) {
	buyer, ok := buyerFromCtx(w, r)
	if !ok {
		return
	}

	var in paymentInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if _, err := c.products.Capture(r.Context(), buyer, in.Cart, in.Nonce); err != nil {
		fail(w, r, err, "Order not found")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
