package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/bind"
	"github.com/shashiranjanraj/kirana/pkg/response"
)

// CategoryController serves category CRUD.
type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryInput struct {
	Name string `json:"name" validate:"required"`
}

// Create handles POST /create-category (admin). An existing name is a
// benign success, not a conflict.
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cat, existed, err := c.categories.Create(r.Context(), in.Name)
	if err != nil {
		fail(w, r, err, "Category not found")
		return
	}
	if existed {
		response.OK(w, "Category Already exists", nil)
		return
	}

	response.Created(w, "New Category Created", response.M{"category": cat})
}

// Update handles PUT /update-category/{id} (admin).
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var in categoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.categories.Update(r.Context(), id, in.Name)
	if err != nil {
		fail(w, r, err, "Category not found")
		return
	}

	response.OK(w, "Category Updated Successfully", response.M{"category": cat})
}

// All handles GET /getAllCategory.
func (c *CategoryController) All(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.All(r.Context())
	if err != nil {
		fail(w, r, err, "Category not found")
		return
	}
	response.OK(w, "All Categories List", response.M{"category": cats})
}

// BySlug handles GET /get-category/{slug}.
func (c *CategoryController) BySlug(w http.ResponseWriter, r *http.Request) {
	cat, err := c.categories.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err, "Category not found")
		return
	}
	response.OK(w, "Single Category", response.M{"category": cat})
}

// Delete handles DELETE /delete-category/{id} (admin). Products referencing
// the category are left untouched.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := c.categories.Delete(r.Context(), id); err != nil {
		fail(w, r, err, "Category not found")
		return
	}
	response.OK(w, "Category Deleted Successfully", nil)
}
