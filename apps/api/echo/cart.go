package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/cart"
	"github.com/trezcool/masomo-portal/core/instructor"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

type cartApi struct {
	*Server
}

// The catalog, carts and orders are reachable anonymously, as on the LMS.
func (s *Server) registerCartAPI(g *echo.Group) {
	api := cartApi{s}

	g.GET("/course/course-list", api.courses)
	g.GET("/course/category", api.categories)

	g.GET("/course/cart-list/:cart_id", api.cartItems)
	g.GET("/cart/stats/:cart_id", api.cartStats)
	g.POST("/course/cart", api.addToCart)
	g.DELETE("/course/cart-item-delete/:cart_id/:item_id", api.removeCartItem)

	g.POST("/order/create-order", api.createOrder)
	g.GET("/order/checkout/:order_oid", api.checkout)
}

// Handlers

func (api cartApi) courses(ctx echo.Context) error {
	courses := api.db.Courses()
	views := make([]cart.Course, 0, len(courses))
	for _, crs := range courses {
		views = append(views, cartCourseView(crs))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api cartApi) categories(ctx echo.Context) error {
	cats := api.db.Categories()
	views := make([]instructor.Category, 0, len(cats))
	for _, cat := range cats {
		views = append(views, instructor.Category{ID: cat.ID, Title: cat.Title})
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api cartApi) cartItems(ctx echo.Context) error {
	items := api.db.CartItems(ctx.Param("cart_id"))
	views := make([]cart.Item, 0, len(items))
	for _, it := range items {
		views = append(views, api.cartItemView(it))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api cartApi) cartStats(ctx echo.Context) error {
	stats := api.db.CartStats(ctx.Param("cart_id"))
	return ctx.JSON(http.StatusOK, cart.Stats{
		Price: core.Money(stats.Price),
		Tax:   core.Money(stats.Tax),
		Total: core.Money(stats.Total),
	})
}

func (api cartApi) addToCart(ctx echo.Context) error {
	var data CartRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}

	_, created, err := api.db.AddToCart(memdb.CartItem{
		CartID:   data.CartID,
		CourseID: data.CourseID,
		UserID:   data.UserID,
		Price:    data.Price,
		Country:  data.CountryName,
	})
	if err != nil {
		return errors.Wrap(err, "adding to cart")
	}
	if created {
		return ctx.JSON(http.StatusCreated, MessageResponse{Message: "Cart Created Successfully"})
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Cart Updated Successfully"})
}

func (api cartApi) removeCartItem(ctx echo.Context) error {
	itemID, err := paramInt(ctx, "item_id")
	if err != nil {
		return err
	}
	if err = api.db.RemoveCartItem(ctx.Param("cart_id"), itemID); err != nil {
		return errors.Wrap(err, "removing cart item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api cartApi) createOrder(ctx echo.Context) error {
	var data OrderRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}

	order, err := api.db.CreateOrder(memdb.Order{
		UserID:   data.UserID,
		FullName: core.CleanString(data.FullName),
		Email:    core.CleanString(data.Email, true),
		Country:  data.Country,
		CartID:   data.CartID,
	})
	if err != nil {
		return errors.Wrap(err, "creating order")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"message":   "Order Created Successfully",
		"order_oid": order.OID,
	})
}

func (api cartApi) checkout(ctx echo.Context) error {
	order, err := api.db.Order(ctx.Param("order_oid"))
	if err != nil {
		return errors.Wrap(err, "finding order")
	}
	return ctx.JSON(http.StatusOK, api.orderView(order))
}
