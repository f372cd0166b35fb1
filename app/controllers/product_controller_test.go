package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kirana/app/controllers"
	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/router"
)

// downProducts simulates a storage failure on the list and count reads.
// The embedded interface stays nil; any other method call is a test bug.
type downProducts struct {
	services.ProductStore
}

func (downProducts) Latest(context.Context, int64) ([]models.Product, error) {
	return nil, errors.New("connection reset")
}

func (downProducts) EstimatedCount(context.Context) (int64, error) {
	return 0, errors.New("connection reset")
}

func productAPI(store services.ProductStore) http.Handler {
	svc := services.NewProductService(store, nil, nil, nil)
	pc := controllers.NewProductController(svc)

	r := router.New()
	r.Get("/get-product", "", pc.List)
	r.Get("/product-count", "", pc.Count)
	return r.Handler()
}

func TestListStorageFailureIsSanitized500(t *testing.T) {
	h := productAPI(downProducts{})

	req := httptest.NewRequest(http.MethodGet, "/get-product", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Something went wrong", body["message"])
}

func TestCountStorageFailureIsSanitized500(t *testing.T) {
	h := productAPI(downProducts{})

	req := httptest.NewRequest(http.MethodGet, "/product-count", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Something went wrong", body["message"])
}
