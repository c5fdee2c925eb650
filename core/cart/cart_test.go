package cart

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/services/notify"
	"github.com/trezcool/masomo-portal/storage/localstore"
)

type fakeBackend struct {
	mu     sync.Mutex
	items  map[string][]Item
	orders []OrderInput
	adds   []AddInput

	statsErr error
	orderErr error
}

func (b *fakeBackend) CartItems(_ context.Context, cartID string) ([]Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Item(nil), b.items[cartID]...), nil
}

func (b *fakeBackend) CartStats(_ context.Context, cartID string) (Stats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.statsErr != nil {
		return Stats{}, b.statsErr
	}
	var st Stats
	for _, it := range b.items[cartID] {
		st.Price += it.Price
	}
	st.Tax = st.Price / 10
	st.Total = st.Price + st.Tax
	return st, nil
}

func (b *fakeBackend) AddToCart(_ context.Context, in AddInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adds = append(b.adds, in)
	b.items[in.CartID] = append(b.items[in.CartID], Item{
		ID: len(b.items[in.CartID]) + 1, CartID: in.CartID, Price: in.Price, Course: Course{ID: in.CourseID},
	})
	return nil
}

func (b *fakeBackend) RemoveCartItem(_ context.Context, cartID string, itemID int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.items[cartID]
	for i, it := range items {
		if it.ID == itemID {
			b.items[cartID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (b *fakeBackend) CreateOrder(_ context.Context, in OrderInput) (string, error) {
	if b.orderErr != nil {
		return "", b.orderErr
	}
	b.orders = append(b.orders, in)
	return "oid-1", nil
}

func (b *fakeBackend) Order(_ context.Context, oid string) (Order, error) {
	return Order{OID: oid, PaymentStatus: "Paid"}, nil
}

type staticUser int

func (u staticUser) UserID() int { return int(u) }

func TestIDStore_ID(t *testing.T) {
	storage := localstore.NewMemory()
	ids := NewIDStore(storage)

	first, err := ids.ID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), first, "first call returns the new id")

	for i := 0; i < 3; i++ {
		again, err := ids.ID()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// another store over the same storage sees the persisted id
	again, err := NewIDStore(storage).ID()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, ids.Reset())
	_, ok, _ := storage.Get(idKey)
	assert.False(t, ok)
}

func TestIDStore_ID_deterministic(t *testing.T) {
	defer func(r io.Reader) { randReader = r }(randReader)
	randReader = bytes.NewReader(bytes.Repeat([]byte{0}, 64))

	id, err := NewIDStore(localstore.NewMemory()).ID()
	require.NoError(t, err)
	assert.Equal(t, "111111", id)
}

func setupCheckout(t *testing.T, userID int) (*Checkout, *fakeBackend, *notify.Recorder) {
	t.Helper()
	backend := &fakeBackend{items: make(map[string][]Item)}
	notifier := new(notify.Recorder)
	co := NewCheckout(Deps{
		Backend:  backend,
		IDs:      NewIDStore(localstore.NewMemory()),
		Users:    staticUser(userID),
		Notifier: notifier,
	})
	return co, backend, notifier
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	co, backend, notifier := setupCheckout(t, 5)

	require.NoError(t, co.Load(ctx))
	assert.Zero(t, co.Count())

	require.NoError(t, co.Add(ctx, Course{ID: 1, Price: 10}, "Kenya"))
	require.NoError(t, co.Add(ctx, Course{ID: 2, Price: 30}, "Kenya"))
	assert.Equal(t, 2, co.Count())
	assert.Equal(t, Stats{Price: 40, Tax: 4, Total: 44}, co.Stats())
	assert.Equal(t, 5, backend.adds[0].UserID)

	before := co.Items()
	require.NoError(t, co.Remove(ctx, 1))
	require.Len(t, co.Items(), 1)
	assert.Equal(t, []int{1, 2}, []int{before[0].Course.ID, before[1].Course.ID}, "earlier listings are untouched")
	assert.Equal(t, 2, co.Items()[0].Course.ID)
	last, _ := notifier.Last()
	assert.Equal(t, notify.Toast{Level: notify.LevelSuccess, Title: "Removed From Cart"}, last)

	backend.statsErr = errors.New("boom")
	assert.Error(t, co.Load(ctx))
	assert.Equal(t, 1, notifier.Count(notify.LevelError))
}

func TestCheckout_CreateOrder(t *testing.T) {
	ctx := context.Background()
	valid := BioData{FullName: " Jane Doe ", Email: "Jane@Test.cd", Country: "Kenya"}

	tests := []struct {
		name       string
		userID     int
		bio        BioData
		wantErr    bool
		wantOrders int
	}{
		{name: "missing country", userID: 5, bio: BioData{FullName: "Jane", Email: "jane@test.cd"}, wantErr: true},
		{name: "invalid email", userID: 5, bio: BioData{FullName: "Jane", Email: "jane", Country: "Kenya"}, wantErr: true},
		{name: "logged out", userID: 0, bio: valid, wantErr: true},
		{name: "valid", userID: 5, bio: valid, wantOrders: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co, backend, _ := setupCheckout(t, tt.userID)
			oid, err := co.CreateOrder(ctx, tt.bio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(backend.orders) != tt.wantOrders {
				t.Fatalf("CreateOrder() sent %d orders, want %d", len(backend.orders), tt.wantOrders)
			}
			if tt.wantErr {
				return
			}
			cartID, _ := co.ids.ID()
			assert.Equal(t, "oid-1", oid)
			assert.Equal(t, OrderInput{FullName: "Jane Doe", Email: "jane@test.cd", Country: "Kenya", CartID: cartID, UserID: 5}, backend.orders[0])
		})
	}

	t.Run("logged out notifies", func(t *testing.T) {
		co, _, notifier := setupCheckout(t, 0)
		_, err := co.CreateOrder(ctx, valid)
		assert.Equal(t, ErrNotLoggedIn, err)
		last, _ := notifier.Last()
		assert.Equal(t, notify.Toast{Level: notify.LevelError, Title: "User authentication required"}, last)
	})
}
