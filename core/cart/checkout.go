package cart

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/masomo-portal/core"
)

var ErrNotLoggedIn = errors.New("user authentication required")

type (
	Course struct {
		ID    int        `json:"id"`
		Title string     `json:"title"`
		Image string     `json:"image"`
		Slug  string     `json:"slug,omitempty"`
		Price core.Money `json:"price"`
	}

	Item struct {
		ID     int        `json:"id"`
		CartID string     `json:"cart_id"`
		Price  core.Money `json:"price"`
		Course Course     `json:"course"`
		Date   string     `json:"date,omitempty"`
	}

	Stats struct {
		Price core.Money `json:"price"`
		Tax   core.Money `json:"tax"`
		Total core.Money `json:"total"`
	}

	// BioData is the billing form of the cart page.
	BioData struct {
		FullName string `json:"full_name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Country  string `json:"country" validate:"required"`
	}

	AddInput struct {
		CourseID    int        `json:"course_id"`
		UserID      int        `json:"user_id"`
		Price       core.Money `json:"price"`
		CountryName string     `json:"country_name"`
		CartID      string     `json:"cart_id"`
	}

	OrderInput struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Country  string `json:"country"`
		CartID   string `json:"cart_id"`
		UserID   int    `json:"user_id"`
	}

	OrderItem struct {
		ID     int        `json:"id"`
		Course Course     `json:"course"`
		Price  core.Money `json:"price"`
		Total  core.Money `json:"total"`
	}

	Order struct {
		OID           string      `json:"oid"`
		FullName      string      `json:"full_name"`
		Email         string      `json:"email"`
		Country       string      `json:"country"`
		SubTotal      core.Money  `json:"sub_total"`
		Tax           core.Money  `json:"tax_fee"`
		Total         core.Money  `json:"total"`
		PaymentStatus string      `json:"payment_status"`
		OrderItems    []OrderItem `json:"order_items"`
	}

	// Backend is the part of the LMS API the cart page talks to.
	Backend interface {
		CartItems(ctx context.Context, cartID string) ([]Item, error)
		CartStats(ctx context.Context, cartID string) (Stats, error)
		AddToCart(ctx context.Context, in AddInput) error
		RemoveCartItem(ctx context.Context, cartID string, itemID int) error
		CreateOrder(ctx context.Context, in OrderInput) (string, error)
		Order(ctx context.Context, oid string) (Order, error)
	}

	// UserSource yields the signed-in user's id, 0 when logged out.
	UserSource interface {
		UserID() int
	}

	Deps struct {
		Backend   Backend
		IDs       *IDStore
		Users     UserSource
		Notifier  core.Notifier
		Logger    core.Logger
		Validator *core.Validator
	}
)

// Checkout holds the state of the cart page.
type Checkout struct {
	backend   Backend
	ids       *IDStore
	users     UserSource
	notifier  core.Notifier
	logger    core.Logger
	validator *core.Validator

	items  []Item
	stats  Stats
	loaded bool
	busy   bool
}

func NewCheckout(deps Deps) *Checkout {
	co := &Checkout{
		backend:   deps.Backend,
		ids:       deps.IDs,
		users:     deps.Users,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		validator: deps.Validator,
	}
	if co.validator == nil {
		co.validator = core.NewValidator()
	}
	return co
}

// Load fetches the cart items and totals concurrently.
func (co *Checkout) Load(ctx context.Context) error {
	cartID, err := co.ids.ID()
	if err != nil {
		return err
	}

	var (
		items []Item
		stats Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = co.backend.CartItems(gctx, cartID)
		return errors.Wrap(err, "fetching cart items")
	})
	g.Go(func() (err error) {
		stats, err = co.backend.CartStats(gctx, cartID)
		return errors.Wrap(err, "fetching cart stats")
	})
	if err := g.Wait(); err != nil {
		co.fail("Failed to load cart", err)
		return err
	}

	co.items = items
	co.stats = stats
	co.loaded = true
	return nil
}

func (co *Checkout) Items() []Item { return co.items }
func (co *Checkout) Stats() Stats  { return co.stats }
func (co *Checkout) Count() int    { return len(co.items) }
func (co *Checkout) Loaded() bool  { return co.loaded }

// Add puts a course in the cart.
func (co *Checkout) Add(ctx context.Context, course Course, country string) error {
	cartID, err := co.ids.ID()
	if err != nil {
		return err
	}
	in := AddInput{CourseID: course.ID, Price: course.Price, CountryName: country, CartID: cartID}
	if co.users != nil {
		in.UserID = co.users.UserID()
	}
	if err := co.backend.AddToCart(ctx, in); err != nil {
		err = errors.Wrap(err, "adding to cart")
		co.fail("Failed to add to cart", err)
		return err
	}
	co.notifier.Success("Added To Cart")
	return co.Load(ctx)
}

// Remove deletes an item and drops it from the local list.
func (co *Checkout) Remove(ctx context.Context, itemID int) error {
	cartID, err := co.ids.ID()
	if err != nil {
		return err
	}
	if err := co.backend.RemoveCartItem(ctx, cartID, itemID); err != nil {
		err = errors.Wrap(err, "removing cart item")
		co.fail("Failed to remove from cart", err)
		return err
	}

	kept := make([]Item, 0, len(co.items))
	for _, it := range co.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	co.items = kept
	co.notifier.Success("Removed From Cart")
	return nil
}

// CreateOrder turns the cart into an order for the signed-in user and returns its id.
func (co *Checkout) CreateOrder(ctx context.Context, bio BioData) (string, error) {
	if co.busy {
		return "", errors.New("order creation in progress")
	}
	co.busy = true
	defer func() { co.busy = false }()

	bio.FullName = core.CleanString(bio.FullName)
	bio.Email = core.CleanString(bio.Email, true)
	bio.Country = core.CleanString(bio.Country)
	if err := co.validator.Struct(bio); err != nil {
		co.notifier.Warning(core.UserMessage("Please fill all required fields", err))
		return "", err
	}

	var userID int
	if co.users != nil {
		userID = co.users.UserID()
	}
	if userID == 0 {
		co.notifier.Error("User authentication required")
		return "", ErrNotLoggedIn
	}

	cartID, err := co.ids.ID()
	if err != nil {
		return "", err
	}

	oid, err := co.backend.CreateOrder(ctx, OrderInput{
		FullName: bio.FullName,
		Email:    bio.Email,
		Country:  bio.Country,
		CartID:   cartID,
		UserID:   userID,
	})
	if err != nil {
		err = errors.Wrap(err, "creating order")
		co.fail("Order creation failed", err)
		return "", err
	}
	return oid, nil
}

// Order loads the checkout summary of an order.
func (co *Checkout) Order(ctx context.Context, oid string) (Order, error) {
	order, err := co.backend.Order(ctx, oid)
	if err != nil {
		err = errors.Wrap(err, "fetching order")
		co.fail("Failed to load order", err)
		return Order{}, err
	}
	return order, nil
}

func (co *Checkout) fail(title string, err error) {
	if co.logger != nil {
		co.logger.Error(title, err)
	}
	co.notifier.Error(core.UserMessage(title, err))
}
