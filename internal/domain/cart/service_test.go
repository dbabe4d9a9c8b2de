package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfialho/artecheiro/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// memCartRepo is an in-memory Repository with upsert semantics matching the
// SQL implementation.
type memCartRepo struct {
	lines map[string]map[string]int // cartID -> productID -> quantity
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{lines: make(map[string]map[string]int)}
}

func (m *memCartRepo) Lines(_ context.Context, cartID string) ([]Line, error) {
	var out []Line
	for id, qty := range m.lines[cartID] {
		out = append(out, Line{ProductID: id, Quantity: qty})
	}
	return out, nil
}

func (m *memCartRepo) AddLine(_ context.Context, cartID, productID string, quantity int) error {
	if m.lines[cartID] == nil {
		m.lines[cartID] = make(map[string]int)
	}
	m.lines[cartID][productID] += quantity
	return nil
}

func (m *memCartRepo) SetQuantity(_ context.Context, cartID, productID string, quantity int) error {
	if _, ok := m.lines[cartID][productID]; !ok {
		return ErrLineNotFound
	}
	m.lines[cartID][productID] = quantity
	return nil
}

func (m *memCartRepo) RemoveLine(_ context.Context, cartID, productID string) error {
	if _, ok := m.lines[cartID][productID]; !ok {
		return ErrLineNotFound
	}
	delete(m.lines[cartID], productID)
	return nil
}

func (m *memCartRepo) Clear(_ context.Context, cartID string) error {
	delete(m.lines, cartID)
	return nil
}

// --- Helpers ---

func newTestProduct(id, name string, price int64) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Description: "test product",
		Price:       price,
		Image:       "/images/" + id + ".png",
	}
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

const testCartID = "11111111-1111-1111-1111-111111111111"

// --- Tests ---

func TestAdd_InvalidQuantity(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	svc := NewService(newMemCartRepo(), newProductRepo(p1))

	for _, qty := range []int{0, -3} {
		err := svc.Add(context.Background(), testCartID, "p1", qty)

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, err, &iqErr)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, qty, iqErr.Quantity)
	}
}

func TestAdd_UnknownProduct(t *testing.T) {
	svc := NewService(newMemCartRepo(), newProductRepo())

	err := svc.Add(context.Background(), testCartID, "missing", 1)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestAdd_SameProductAccumulates(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	svc := NewService(newMemCartRepo(), newProductRepo(p1))

	require.NoError(t, svc.Add(context.Background(), testCartID, "p1", 1))
	require.NoError(t, svc.Add(context.Background(), testCartID, "p1", 2))

	c, err := svc.Get(context.Background(), testCartID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, int64(3000), c.Subtotal)
}

func TestUpdate_ZeroRemovesLine(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	p2 := newTestProduct("p2", "Sabonete Vermelho", 700)
	svc := NewService(newMemCartRepo(), newProductRepo(p1, p2))

	require.NoError(t, svc.Add(context.Background(), testCartID, "p1", 2))
	require.NoError(t, svc.Add(context.Background(), testCartID, "p2", 1))

	require.NoError(t, svc.Update(context.Background(), testCartID, "p1", 0))

	c, err := svc.Get(context.Background(), testCartID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].Product.ID)
	assert.Equal(t, int64(700), c.Subtotal)
}

func TestUpdate_NegativeQuantity(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	svc := NewService(newMemCartRepo(), newProductRepo(p1))

	err := svc.Update(context.Background(), testCartID, "p1", -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdate_MissingLine(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	svc := NewService(newMemCartRepo(), newProductRepo(p1))

	err := svc.Update(context.Background(), testCartID, "p1", 2)
	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestGet_SubtotalOverResolvedLines(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	p2 := newTestProduct("p2", "Sabonete Vermelho", 700)
	svc := NewService(newMemCartRepo(), newProductRepo(p1, p2))

	require.NoError(t, svc.Add(context.Background(), testCartID, "p1", 2))
	require.NoError(t, svc.Add(context.Background(), testCartID, "p2", 3))

	c, err := svc.Get(context.Background(), testCartID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*1000+3*700), c.Subtotal)
	assert.Empty(t, c.Unresolved)
}

func TestGet_UnresolvedLineExcludedFromSubtotal(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	products := newProductRepo(p1)
	repo := newMemCartRepo()
	svc := NewService(repo, products)

	require.NoError(t, svc.Add(context.Background(), testCartID, "p1", 2))

	// Product disappears from the catalog after the line was added.
	require.NoError(t, repo.AddLine(context.Background(), testCartID, "ghost", 1))

	c, err := svc.Get(context.Background(), testCartID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Len(t, c.Unresolved, 1)
	assert.Equal(t, "ghost", c.Unresolved[0].ProductID)
	assert.Equal(t, int64(2000), c.Subtotal)
	assert.False(t, c.Empty())
}

func TestGet_EmptyCart(t *testing.T) {
	svc := NewService(newMemCartRepo(), newProductRepo())

	c, err := svc.Get(context.Background(), testCartID)
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Zero(t, c.Subtotal)
}

func TestClear(t *testing.T) {
	p1 := newTestProduct("p1", "Sabonete Azul", 1000)
	svc := NewService(newMemCartRepo(), newProductRepo(p1))

	require.NoError(t, svc.Add(context.Background(), testCartID, "p1", 2))
	require.NoError(t, svc.Clear(context.Background(), testCartID))

	c, err := svc.Get(context.Background(), testCartID)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestGet_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(newMemCartRepo(), &mockProductRepo{getErr: boom})

	require.NoError(t, svc.carts.AddLine(context.Background(), testCartID, "p1", 1))
	_, err := svc.Get(context.Background(), testCartID)
	require.ErrorIs(t, err, boom)
}
