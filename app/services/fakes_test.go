package services_test

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/payment"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateKeyErr mimics the unique-index violation the Mongo driver
// reports, so the register race path can be exercised without a server.
func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

// ── users ────────────────────────────────────────────────────────────────────

type fakeUserStore struct {
	users       map[primitive.ObjectID]*models.User
	createCalls int
	createErr   error // returned once by the next Create, then cleared
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) add(u models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByEmailAndAnswer(_ context.Context, email, answer string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) && u.Answer == answer {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (f *fakeUserStore) RoleByID(_ context.Context, id primitive.ObjectID) (int, error) {
	u, ok := f.users[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return u.Role, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.createCalls++
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return duplicateKeyErr()
		}
	}
	user.ID = primitive.NewObjectID()
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hash
	return nil
}

// ── categories ───────────────────────────────────────────────────────────────

type fakeCategoryStore struct {
	cats map[primitive.ObjectID]*models.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{cats: make(map[primitive.ObjectID]*models.Category)}
}

func (f *fakeCategoryStore) add(c models.Category) *models.Category {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.cats[c.ID] = &c
	return &c
}

func (f *fakeCategoryStore) FindByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range f.cats {
		if strings.EqualFold(c.Name, name) {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.cats {
		if c.Slug == slug {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Category, error) {
	out := make(map[primitive.ObjectID]*models.Category, len(ids))
	for _, id := range ids {
		if c, ok := f.cats[id]; ok {
			copy := *c
			out[id] = &copy
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) All(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.cats))
	for _, c := range f.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) Insert(_ context.Context, cat *models.Category) error {
	cat.ID = primitive.NewObjectID()
	copy := *cat
	f.cats[cat.ID] = &copy
	return nil
}

func (f *fakeCategoryStore) UpdateByID(_ context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error) {
	c, ok := f.cats[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Name, c.Slug = name, slug
	copy := *c
	return &copy, nil
}

func (f *fakeCategoryStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.cats[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.cats, id)
	return nil
}

// ── products ─────────────────────────────────────────────────────────────────

type fakeProductStore struct {
	products []models.Product

	lastPage    int64
	lastPerPage int64
	lastFilter  struct {
		categories []primitive.ObjectID
		priceRange []float64
	}
}

func (f *fakeProductStore) Insert(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, p *models.Product) error {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = *p
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeProductStore) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			copy := f.products[i]
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductStore) FetchPhoto(_ context.Context, id primitive.ObjectID) (*models.Photo, error) {
	for i := range f.products {
		if f.products[i].ID == id && f.products[i].Photo != nil {
			return f.products[i].Photo, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeProductStore) Latest(_ context.Context, limit int64) ([]models.Product, error) {
	if int64(len(f.products)) <= limit {
		return append([]models.Product(nil), f.products...), nil
	}
	return append([]models.Product(nil), f.products[:limit]...), nil
}

func (f *fakeProductStore) Filter(_ context.Context, categories []primitive.ObjectID, priceRange []float64) ([]models.Product, error) {
	f.lastFilter.categories = categories
	f.lastFilter.priceRange = priceRange

	var out []models.Product
	for _, p := range f.products {
		if len(categories) > 0 && !containsID(categories, p.Category) {
			continue
		}
		if len(priceRange) == 2 && (p.Price < priceRange[0] || p.Price > priceRange[1]) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) EstimatedCount(_ context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeProductStore) Page(_ context.Context, page, perPage int64) ([]models.Product, error) {
	f.lastPage, f.lastPerPage = page, perPage

	start := (page - 1) * perPage
	if start >= int64(len(f.products)) {
		return []models.Product{}, nil
	}
	end := start + perPage
	if end > int64(len(f.products)) {
		end = int64(len(f.products))
	}
	return append([]models.Product(nil), f.products[start:end]...), nil
}

func (f *fakeProductStore) Search(_ context.Context, keyword string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) ||
			strings.Contains(strings.ToLower(p.Description), strings.ToLower(keyword)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) Related(_ context.Context, productID, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.ID == productID || p.Category != categoryID {
			continue
		}
		out = append(out, p)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProductStore) ByCategory(_ context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// ── orders ───────────────────────────────────────────────────────────────────

type fakeOrderStore struct {
	orders    []models.Order
	insertErr error
}

func (f *fakeOrderStore) Insert(_ context.Context, order *models.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	order.ID = primitive.NewObjectID()
	if order.Status == "" {
		order.Status = models.StatusNotProcessed
	}
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderStore) ByBuyer(_ context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.Buyer == buyer {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) All(_ context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrNotFound
}

// ── payment gateway ──────────────────────────────────────────────────────────

type fakeGateway struct {
	saleAmount float64
	saleNonce  string
	saleCalls  int
	saleErr    error
	token      string
}

func (f *fakeGateway) ClientToken(_ context.Context) (string, error) {
	if f.token == "" {
		return "fake-client-token", nil
	}
	return f.token, nil
}

func (f *fakeGateway) Sale(_ context.Context, amount float64, nonce string) (*payment.Transaction, error) {
	f.saleCalls++
	f.saleAmount = amount
	f.saleNonce = nonce
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	return &payment.Transaction{ID: "txn-1", Status: "submitted_for_settlement", Amount: amount}, nil
}
