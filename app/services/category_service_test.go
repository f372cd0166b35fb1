package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/app/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryCreateSlugifiesName(t *testing.T) {
	cats := newFakeCategoryStore()
	svc := services.NewCategoryService(cats)

	cat, existed, err := svc.Create(context.Background(), "Home & Kitchen")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "Home & Kitchen", cat.Name)
	assert.Equal(t, "home-kitchen", cat.Slug)
}

func TestCategoryCreateExistingIsBenign(t *testing.T) {
	cats := newFakeCategoryStore()
	svc := services.NewCategoryService(cats)

	first, _, err := svc.Create(context.Background(), "Books")
	require.NoError(t, err)

	second, existed, err := svc.Create(context.Background(), "Books")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, cats.cats, 1)
}

func TestCategoryUpdateRegeneratesSlug(t *testing.T) {
	cats := newFakeCategoryStore()
	svc := services.NewCategoryService(cats)

	cat, _, err := svc.Create(context.Background(), "Books")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), cat.ID, "Rare Books")
	require.NoError(t, err)
	assert.Equal(t, "Rare Books", updated.Name)
	assert.Equal(t, "rare-books", updated.Slug)
}

func TestCategoryUpdateUnknownID(t *testing.T) {
	svc := services.NewCategoryService(newFakeCategoryStore())

	_, err := svc.Update(context.Background(), primitive.NewObjectID(), "Anything")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCategoryDeleteLeavesProductsDangling(t *testing.T) {
	cats := newFakeCategoryStore()
	products := &fakeProductStore{}
	catSvc := services.NewCategoryService(cats)
	prodSvc := services.NewProductService(products, cats, &fakeOrderStore{}, &fakeGateway{})

	cat := cats.add(models.Category{Name: "Books", Slug: "books"})
	_, err := prodSvc.Create(context.Background(), services.ProductInput{
		Name: "Atlas", Description: "Maps", Price: 20, Category: cat.ID, Quantity: 1,
	})
	require.NoError(t, err)

	require.NoError(t, catSvc.Delete(context.Background(), cat.ID))

	// The product survives with a dangling reference; its populated view
	// simply carries a nil category.
	views, err := prodSvc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Category)
}
