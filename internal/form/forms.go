package form

import (
	"strings"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/shopspring/decimal"
)

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (Login) messages() map[string]string {
	return map[string]string{
		"email":    "Invalid email address",
		"password": "Password must be at least 6 characters",
	}
}

func (f Login) Credentials() domain.Credentials {
	return domain.Credentials{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

func (f Login) normalized() any {
	f.Email = strings.TrimSpace(f.Email)
	return f
}

type Register struct {
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone,omitempty"`
}

func (Register) messages() map[string]string {
	return map[string]string{
		"firstName": "First name must be at least 2 characters",
		"lastName":  "Last name must be at least 2 characters",
		"email":     "Invalid email address",
		"password":  "Password must be at least 6 characters",
	}
}

func (f Register) Registration() domain.Registration {
	return domain.Registration{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
		Phone:     strings.TrimSpace(f.Phone),
	}
}

func (f Register) normalized() any {
	r := f.Registration()
	return Register{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Password: r.Password, Phone: r.Phone}
}

type Profile struct {
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
}

func (Profile) messages() map[string]string {
	return map[string]string{
		"firstName": "First name must be at least 2 characters",
		"lastName":  "Last name must be at least 2 characters",
		"email":     "Invalid email address",
	}
}

func (f Profile) Update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
	}
}

func (f Profile) normalized() any {
	u := f.Update()
	return Profile{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone}
}

// Checkout is the shipping and payment form. Card fields are checked here
// and go no further.
type Checkout struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"min=10"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	ZipCode    string `json:"zipCode" validate:"min=5"`
	Country    string `json:"country" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"len=16,numeric"`
	CardExpiry string `json:"cardExpiry" validate:"mmyy"`
	CardCVC    string `json:"cardCVC" validate:"min=3,max=4,numeric"`
}

func (Checkout) messages() map[string]string {
	return map[string]string{
		"firstName":       "First name is required",
		"lastName":        "Last name is required",
		"email":           "Invalid email address",
		"phone":           "Phone number must be at least 10 digits",
		"street":          "Street address is required",
		"city":            "City is required",
		"state":           "State is required",
		"zipCode":         "ZIP code must be at least 5 digits",
		"country":         "Country is required",
		"cardNumber":      "Card number must be 16 digits",
		"cardExpiry":      "Format must be MM/YY",
		"cardCVC":         "CVC must be at least 3 digits",
		"cardCVC.max":     "CVC must be at most 4 digits",
		"cardCVC.numeric": "CVC must be digits only",
	}
}

// Customer is the contact snapshot for the order.
func (f Checkout) Customer() domain.OrderCustomer {
	return domain.OrderCustomer{
		Name:  strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName)),
		Email: strings.TrimSpace(f.Email),
		Phone: strings.TrimSpace(f.Phone),
	}
}

// ShippingAddress is the address snapshot for the order.
func (f Checkout) ShippingAddress() domain.Address {
	return domain.Address{
		Street:  strings.TrimSpace(f.Street),
		City:    strings.TrimSpace(f.City),
		State:   strings.TrimSpace(f.State),
		ZipCode: strings.TrimSpace(f.ZipCode),
		Country: strings.TrimSpace(f.Country),
	}
}

func (f Checkout) normalized() any {
	for _, field := range []*string{
		&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.Street, &f.City,
		&f.State, &f.ZipCode, &f.Country, &f.CardNumber, &f.CardExpiry, &f.CardCVC,
	} {
		*field = strings.TrimSpace(*field)
	}
	return f
}

type Address struct {
	Type      domain.AddressType `json:"type" validate:"required,oneof=shipping billing"`
	Street    string             `json:"street" validate:"required"`
	City      string             `json:"city" validate:"required"`
	State     string             `json:"state" validate:"required"`
	ZipCode   string             `json:"zipCode" validate:"required"`
	Country   string             `json:"country" validate:"required"`
	IsDefault bool               `json:"isDefault"`
}

func (Address) messages() map[string]string {
	return map[string]string{
		"type":    "Address type must be shipping or billing",
		"street":  "Street address is required",
		"city":    "City is required",
		"state":   "State is required",
		"zipCode": "ZIP code is required",
		"country": "Country is required",
	}
}

func (f Address) Address() domain.Address {
	return domain.Address{
		Type:      f.Type,
		Street:    strings.TrimSpace(f.Street),
		City:      strings.TrimSpace(f.City),
		State:     strings.TrimSpace(f.State),
		ZipCode:   strings.TrimSpace(f.ZipCode),
		Country:   strings.TrimSpace(f.Country),
		IsDefault: f.IsDefault,
	}
}

func (f Address) normalized() any {
	a := f.Address()
	f.Street, f.City, f.State, f.ZipCode, f.Country = a.Street, a.City, a.State, a.ZipCode, a.Country
	return f
}

// Product is the admin product form minus images, which travel separately.
type Product struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price" validate:"gt=0"`
	Category       domain.Category `json:"category" validate:"required,category"`
	Featured       bool            `json:"featured"`
	Colors         []string        `json:"colors"`
	Sizes          []domain.Size   `json:"sizes"`
	ExistingImages []string        `json:"existingImages"`
}

func (Product) messages() map[string]string {
	return map[string]string{
		"name":     "Product name is required",
		"price":    "Price must be greater than 0",
		"category": "Please select a valid category",
	}
}

// Normalize trims the free-text fields.
func (f Product) Normalize() Product {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

func (f Product) normalized() any { return f.Normalize() }

type OrderStatus struct {
	Status domain.OrderStatus `json:"status" validate:"required,order_status"`
}

func (OrderStatus) messages() map[string]string {
	return map[string]string{
		"status": "Please select a valid status",
	}
}
