package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dukerupert/stride/internal/domain"
)

// OrdersAPI places and reads orders. List and UpdateStatus are admin only.
type OrdersAPI struct{ c *Client }

func (a *OrdersAPI) Create(ctx context.Context, o domain.NewOrder) (domain.Order, error) {
	var out domain.Order
	err := a.c.sendJSON(ctx, "orders", "create", http.MethodPost, "/orders", o, &out)
	return out, err
}

// Mine lists the signed-in customer's orders.
func (a *OrdersAPI) Mine(ctx context.Context) ([]domain.Order, error) {
	var list orderListing
	if err := a.c.getJSON(ctx, "orders", "mine", "/orders/my-orders", nil, &list); err != nil {
		return nil, err
	}
	return list.Orders, nil
}

func (a *OrdersAPI) Get(ctx context.Context, id string) (domain.Order, error) {
	var out domain.Order
	err := a.c.getJSON(ctx, "orders", "get", "/orders/"+url.PathEscape(id), nil, &out)
	return out, err
}

// List returns all orders, filtered by status unless status is empty.
func (a *OrdersAPI) List(ctx context.Context, status domain.OrderStatus) (domain.OrderList, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var list orderListing
	if err := a.c.getJSON(ctx, "orders", "list", "/orders", q, &list); err != nil {
		return domain.OrderList{}, err
	}
	return domain.OrderList(list), nil
}

func (a *OrdersAPI) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	var out domain.Order
	body := map[string]domain.OrderStatus{"status": status}
	err := a.c.sendJSON(ctx, "orders", "update_status", http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", body, &out)
	return out, err
}

// orderListing accepts both a bare array and {orders, pagination}.
type orderListing domain.OrderList

func (l *orderListing) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Orders)
	}
	var wrapped domain.OrderList
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = orderListing(wrapped)
	return nil
}
