package memdb

import (
	"math"
	"sort"
	"time"
)

type (
	CartItem struct {
		ID       int
		CartID   string
		CourseID int
		UserID   int
		Price    float64
		Tax      float64
		Total    float64
		Country  string
		Date     time.Time
	}

	CartStats struct {
		Price float64
		Tax   float64
		Total float64
	}

	OrderItem struct {
		ID       int
		CourseID int
		Price    float64
		Tax      float64
		Total    float64
	}

	Order struct {
		OID           string
		UserID        int
		FullName      string
		Email         string
		Country       string
		CartID        string
		SubTotal      float64
		Tax           float64
		Total         float64
		PaymentStatus string
		Items         []OrderItem
		Date          time.Time
	}
)

// AddToCart puts a course in a cart, or refreshes its price when it is already there.
// It reports whether a new item was created.
func (db *DB) AddToCart(item CartItem) (CartItem, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.courses[item.CourseID]; !ok {
		return CartItem{}, false, ErrNotFound
	}
	item.Tax = round2(item.Price * TaxRate)
	item.Total = round2(item.Price + item.Tax)

	for _, it := range db.cartItems {
		if it.CartID == item.CartID && it.CourseID == item.CourseID {
			it.Price, it.Tax, it.Total = item.Price, item.Tax, item.Total
			it.UserID, it.Country = item.UserID, item.Country
			return *it, false, nil
		}
	}
	item.ID = db.next("cart")
	item.Date = now()
	db.cartItems[item.ID] = &item
	return item, true, nil
}

func (db *DB) CartItems(cartID string) []CartItem {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.cart(cartID)
}

func (db *DB) cart(cartID string) []CartItem {
	var list []CartItem
	for _, it := range db.cartItems {
		if it.CartID == cartID {
			list = append(list, *it)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (db *DB) CartStats(cartID string) CartStats {
	var stats CartStats
	for _, it := range db.CartItems(cartID) {
		stats.Price += it.Price
		stats.Tax += it.Tax
		stats.Total += it.Total
	}
	stats.Price, stats.Tax, stats.Total = round2(stats.Price), round2(stats.Tax), round2(stats.Total)
	return stats
}

func (db *DB) RemoveCartItem(cartID string, itemID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	it, ok := db.cartItems[itemID]
	if !ok || it.CartID != cartID {
		return ErrNotFound
	}
	delete(db.cartItems, itemID)
	return nil
}

// CreateOrder turns the cart of the order into the order's items.
// There is no payment gateway: the order is paid at once, the user enrolled
// in every ordered course and the cart emptied.
func (db *DB) CreateOrder(order Order) (Order, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	items := db.cart(order.CartID)
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	if _, ok := db.users[order.UserID]; !ok {
		return Order{}, ErrNotFound
	}

	order.OID = shortID()
	order.Date = now()
	for _, it := range items {
		order.Items = append(order.Items, OrderItem{
			ID:       db.next("order_item"),
			CourseID: it.CourseID,
			Price:    it.Price,
			Tax:      it.Tax,
			Total:    it.Total,
		})
		order.SubTotal += it.Price
		order.Tax += it.Tax
		order.Total += it.Total
	}
	order.SubTotal, order.Tax, order.Total = round2(order.SubTotal), round2(order.Tax), round2(order.Total)

	for _, it := range order.Items {
		if _, err := db.enroll(order.UserID, it.CourseID, order.OID); err != nil {
			return Order{}, err
		}
	}
	for _, it := range items {
		delete(db.cartItems, it.ID)
	}
	order.PaymentStatus = "Paid"

	db.orders[order.OID] = &order
	return copyOrder(order), nil
}

func (db *DB) Order(oid string) (Order, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if o, ok := db.orders[oid]; ok {
		return copyOrder(*o), nil
	}
	return Order{}, ErrNotFound
}

func copyOrder(o Order) Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
