package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/stride/internal/domain"
)

// CustomersAPI manages the signed-in customer's profile, wishlist and
// addresses. Mutations other than UpdateProfile discard the response body;
// callers re-read the profile.
type CustomersAPI struct{ c *Client }

func (a *CustomersAPI) Profile(ctx context.Context) (domain.Customer, error) {
	var out domain.Customer
	err := a.c.getJSON(ctx, "customers", "profile", "/customers/profile", nil, &out)
	return out, err
}

func (a *CustomersAPI) UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (domain.Customer, error) {
	var out domain.Customer
	err := a.c.sendJSON(ctx, "customers", "update_profile", http.MethodPatch, "/customers/profile", u, &out)
	return out, err
}

func (a *CustomersAPI) AddToWishlist(ctx context.Context, productID string) error {
	return a.c.sendJSON(ctx, "customers", "wishlist_add", http.MethodPost, "/customers/wishlist/"+url.PathEscape(productID), nil, nil)
}

func (a *CustomersAPI) RemoveFromWishlist(ctx context.Context, productID string) error {
	return a.c.sendJSON(ctx, "customers", "wishlist_remove", http.MethodDelete, "/customers/wishlist/"+url.PathEscape(productID), nil, nil)
}

func (a *CustomersAPI) AddAddress(ctx context.Context, addr domain.Address) error {
	return a.c.sendJSON(ctx, "customers", "address_add", http.MethodPost, "/customers/addresses", addr, nil)
}

func (a *CustomersAPI) UpdateAddress(ctx context.Context, id string, addr domain.Address) error {
	return a.c.sendJSON(ctx, "customers", "address_update", http.MethodPatch, "/customers/addresses/"+url.PathEscape(id), addr, nil)
}

func (a *CustomersAPI) DeleteAddress(ctx context.Context, id string) error {
	return a.c.sendJSON(ctx, "customers", "address_delete", http.MethodDelete, "/customers/addresses/"+url.PathEscape(id), nil, nil)
}
