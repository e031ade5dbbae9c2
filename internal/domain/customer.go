package domain

import "strings"

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

// Address belongs to a customer. The storefront only displays addresses and
// asks the backend to change them.
type Address struct {
	ID        string      `json:"_id,omitempty"`
	Type      AddressType `json:"type,omitempty"`
	Street    string      `json:"street"`
	City      string      `json:"city"`
	State     string      `json:"state"`
	ZipCode   string      `json:"zipCode"`
	Country   string      `json:"country"`
	IsDefault bool        `json:"isDefault,omitempty"`
}

// Customer is the authenticated shopper as returned by the backend.
type Customer struct {
	ID        string    `json:"_id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Addresses []Address `json:"addresses"`
	Wishlist  []string  `json:"wishlist"`
	IsAdmin   bool      `json:"isAdmin,omitempty"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DefaultAddress returns the address flagged as default, if any.
func (c Customer) DefaultAddress() (Address, bool) {
	for _, a := range c.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// InWishlist reports whether productID is on the customer's wishlist.
func (c Customer) InWishlist(productID string) bool {
	for _, id := range c.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// ProfileUpdate is the payload for PATCH /customers/profile.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Credentials is the payload for POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload for POST /auth/register.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResult is what the backend returns from login and registration.
type AuthResult struct {
	Customer Customer `json:"customer"`
	Token    string   `json:"token"`
}
