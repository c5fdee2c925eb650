package lmsapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/cart"
)

// Courses lists the public course catalog.
func (c *Client) Courses(ctx context.Context) ([]cart.Course, error) {
	var courses []cart.Course
	if err := c.do(c.request(ctx), http.MethodGet, "course/course-list/", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) CartItems(ctx context.Context, cartID string) ([]cart.Item, error) {
	var items []cart.Item
	req := c.request(ctx).SetPathParam("cart", cartID)
	if err := c.do(req, http.MethodGet, "course/cart-list/{cart}/", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CartStats(ctx context.Context, cartID string) (cart.Stats, error) {
	var stats cart.Stats
	req := c.request(ctx).SetPathParam("cart", cartID)
	if err := c.do(req, http.MethodGet, "cart/stats/{cart}/", &stats); err != nil {
		return cart.Stats{}, err
	}
	return stats, nil
}

func (c *Client) AddToCart(ctx context.Context, in cart.AddInput) error {
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"course_id":    strconv.Itoa(in.CourseID),
		"user_id":      strconv.Itoa(in.UserID),
		"price":        in.Price.String(),
		"country_name": in.CountryName,
		"cart_id":      in.CartID,
	})
	return c.do(req, http.MethodPost, "course/cart/", nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, cartID string, itemID int) error {
	req := c.request(ctx).SetPathParams(map[string]string{
		"cart": cartID,
		"item": strconv.Itoa(itemID),
	})
	return c.do(req, http.MethodDelete, "course/cart-item-delete/{cart}/{item}/", nil)
}

// CreateOrder returns the id of the new order.
func (c *Client) CreateOrder(ctx context.Context, in cart.OrderInput) (string, error) {
	var resp struct {
		OrderOID string `json:"order_oid"`
	}
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"full_name": in.FullName,
		"email":     in.Email,
		"country":   in.Country,
		"cart_id":   in.CartID,
		"user_id":   strconv.Itoa(in.UserID),
	})
	if err := c.do(req, http.MethodPost, "order/create-order/", &resp); err != nil {
		return "", err
	}
	if resp.OrderOID == "" {
		return "", errors.New("no order id in response")
	}
	return resp.OrderOID, nil
}

func (c *Client) Order(ctx context.Context, oid string) (cart.Order, error) {
	var order cart.Order
	req := c.request(ctx).SetPathParam("oid", oid)
	if err := c.do(req, http.MethodGet, "order/checkout/{oid}/", &order); err != nil {
		return cart.Order{}, err
	}
	return order, nil
}
