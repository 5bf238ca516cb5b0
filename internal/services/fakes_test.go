package service

import (
	"context"
	"sync"
	"time"

	"github.com/nkravets/eshop/internal/infrastructure/redis"
	"github.com/nkravets/eshop/internal/models"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
)

type fakeUserRepo struct {
	usersByEmail map[string]*models.User
	created      []*models.User
	nextID       int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{usersByEmail: make(map[string]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := r.usersByEmail[user.Email]; ok {
		return pkgerrors.ErrEmailExists
	}
	user.ID = r.nextID
	r.nextID++
	r.usersByEmail[user.Email] = user
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range r.usersByEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pkgerrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.usersByEmail[email]
	if !ok {
		return nil, pkgerrors.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	var users []models.User
	for _, u := range r.usersByEmail {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for email, u := range r.usersByEmail {
		if u.ID == id {
			delete(r.usersByEmail, email)
			return nil
		}
	}
	return pkgerrors.ErrUserNotFound
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.usersByEmail)), nil
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	created  []*models.Product
	count    int64
	countErr error
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*models.Product), nextID: 1}
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = product
	r.created = append(r.created, product)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, pkgerrors.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ []int64) ([]models.Product, error) {
	var products []models.Product
	for _, p := range r.products {
		products = append(products, *p)
	}
	return products, nil
}

func (r *fakeProductRepo) ListFeatured(_ context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	for _, p := range r.products {
		if p.IsFeatured {
			products = append(products, *p)
		}
		if limit > 0 && len(products) == limit {
			break
		}
	}
	return products, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pkgerrors.ErrProductNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return pkgerrors.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.count, nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id int64, delta int32) (int32, error) {
	p, ok := r.products[id]
	if !ok || p.CountInStock+delta < 0 {
		return 0, pkgerrors.ErrProductNotFound
	}
	p.CountInStock += delta
	return p.CountInStock, nil
}

type fakeCategoryRepo struct {
	categories map[int64]*models.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*models.Category), nextID: 1}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	category.ID = r.nextID
	r.nextID++
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, pkgerrors.ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]models.Category, error) {
	var categories []models.Category
	for _, c := range r.categories {
		categories = append(categories, *c)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *models.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pkgerrors.ErrCategoryNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return pkgerrors.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	dels   []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (c *fakeRedis) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.values[key]
	if !ok {
		return "", redis.ErrKeyNotFound
	}
	return val, nil
}

func (c *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := value.(string); ok {
		c.values[key] = s
	}
	return nil
}

func (c *fakeRedis) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
		c.dels = append(c.dels, key)
	}
	return nil
}

func (c *fakeRedis) Close() error { return nil }

type sentMessage struct {
	topic string
	key   string
	value []byte
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (p *fakeProducer) Send(_ context.Context, topic, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, value: value})
	return nil
}

func (p *fakeProducer) Sent() []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentMessage(nil), p.sent...)
}

func (p *fakeProducer) Close() error { return nil }
