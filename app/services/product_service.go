package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/pkg/cache"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/metrics"
	"github.com/shashiranjanraj/kirana/pkg/payment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// ListLimit caps the storefront landing list.
	ListLimit = 12
	// PageSize is the page length of the paginated product list.
	PageSize = 10
	// RelatedLimit caps the related-products lookup.
	RelatedLimit = 5

	productCountKey = "products:count"
	productCountTTL = 30 * time.Second
)

// ProductService implements catalog management, browsing and payment
// capture. The gateway client is injected at construction.
type ProductService struct {
	products   ProductStore
	categories CategoryStore
	orders     OrderStore
	gateway    payment.Gateway
}

func NewProductService(products ProductStore, categories CategoryStore, orders OrderStore, gateway payment.Gateway) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		orders:     orders,
		gateway:    gateway,
	}
}

// ProductInput carries a validated create/update request. Controllers parse
// the multipart form and numeric fields before the service runs.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    primitive.ObjectID
	Quantity    int
	Shipping    bool
	Photo       *models.Photo
}

func (in *ProductInput) validatePhoto() error {
	if in.Photo != nil && len(in.Photo.Data) > models.MaxPhotoBytes {
		return ErrPhotoTooLarge
	}
	return nil
}

// Create adds a product; the slug is derived from the name.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validatePhoto(); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		Photo:       in.Photo,
	}

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update overwrites a product's fields; the slug is re-derived from the
// new name. A nil photo keeps the stored one.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, in ProductInput) (*models.Product, error) {
	if err := in.validatePhoto(); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:          id,
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		Photo:       in.Photo,
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// populate attaches category documents to products in one batch query.
// Dangling category references produce a nil category in the view.
func (s *ProductService) populate(ctx context.Context, products []models.Product) ([]models.ProductView, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(products))
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		if p.Category.IsZero() {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		ids = append(ids, p.Category)
	}

	cats, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate categories: %w", err)
	}

	views := make([]models.ProductView, len(products))
	for i, p := range products {
		views[i] = p.View(cats[p.Category])
	}
	return views, nil
}

// Latest returns the 12 newest products, categories populated, photos
// excluded.
func (s *ProductService) Latest(ctx context.Context) ([]models.ProductView, error) {
	products, err := s.products.Latest(ctx, ListLimit)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, products)
}

// BySlug returns one product by slug with its category populated.
func (s *ProductService) BySlug(ctx context.Context, productSlug string) (*models.ProductView, error) {
	p, err := s.products.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	views, err := s.populate(ctx, []models.Product{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Photo returns the stored binary payload for streaming.
func (s *ProductService) Photo(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	return s.products.FetchPhoto(ctx, id)
}

// Delete removes a product by ID.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.products.DeleteByID(ctx, id)
}

// Filter returns products constrained by a category set and a two-element
// price range; either constraint is dropped when its input is empty, so
// two empty inputs mean the full catalog.
func (s *ProductService) Filter(ctx context.Context, categories []primitive.ObjectID, priceRange []float64) ([]models.ProductView, error) {
	products, err := s.products.Filter(ctx, categories, priceRange)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, products)
}

// Count returns the approximate product total, cached briefly since it is
// already an estimate.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	var cached int64
	if cache.Get(productCountKey, &cached) {
		metrics.CacheHits.Inc()
		return cached, nil
	}
	metrics.CacheMisses.Inc()

	total, err := s.products.EstimatedCount(ctx)
	if err != nil {
		return 0, err
	}

	_ = cache.Set(productCountKey, total, productCountTTL)
	return total, nil
}

// Page returns one 10-item page of the newest-first ordering (1-based).
// Pages past the end are empty lists, not errors.
func (s *ProductService) Page(ctx context.Context, page int64) ([]models.Product, error) {
	return s.products.Page(ctx, page, PageSize)
}

// Search matches keyword case-insensitively against names and
// descriptions.
func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return s.products.Search(ctx, keyword)
}

// Related returns up to 5 other products in the same category.
func (s *ProductService) Related(ctx context.Context, productID, categoryID primitive.ObjectID) ([]models.ProductView, error) {
	products, err := s.products.Related(ctx, productID, categoryID, RelatedLimit)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, products)
}

// ByCategorySlug resolves a category by slug and returns its products.
func (s *ProductService) ByCategorySlug(ctx context.Context, categorySlug string) (*models.Category, []models.ProductView, error) {
	cat, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.products.ByCategory(ctx, cat.ID)
	if err != nil {
		return nil, nil, err
	}

	views, err := s.populate(ctx, products)
	if err != nil {
		return nil, nil, err
	}
	return cat, views, nil
}

// ClientToken proxies a gateway client token for the payment SDK.
func (s *ProductService) ClientToken(ctx context.Context) (string, error) {
	return s.gateway.ClientToken(ctx)
}

// Capture charges the summed cart prices against the nonce and, only on
// gateway success, persists the order with the cart snapshot, the gateway
// result and the buyer. The total comes from client-supplied prices — a
// known trust boundary carried over from the original API; re-pricing
// against the catalog would be the hardening move.
func (s *ProductService) Capture(ctx context.Context, buyer primitive.ObjectID, cart []models.CartItem, nonce string) (*models.Order, error) {
	var total float64
	for _, item := range cart {
		total += item.Price
	}

	tx, err := s.gateway.Sale(ctx, total, nonce)
	if err != nil {
		metrics.RecordSale("failed")
		return nil, fmt.Errorf("payment capture: %w", err)
	}
	metrics.RecordSale("success")

	order := &models.Order{
		Products: cart,
		Payment:  *tx,
		Buyer:    buyer,
		Status:   models.StatusNotProcessed,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		// The charge went through but the order write failed; surface the
		// error with enough context for manual reconciliation.
		logger.WithCtx(ctx).Error("order persist failed after sale",
			"transaction_id", tx.ID, "buyer", buyer.Hex(), "amount", total)
		return nil, fmt.Errorf("payment capture: persist order: %w", err)
	}

	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID.Hex(), "buyer", buyer.Hex(), "amount", total)
	return order, nil
}
