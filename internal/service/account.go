package service

import (
	"context"
	"log/slog"

	"github.com/dukerupert/stride/internal/cache"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/notify"
)

// AccountService provides the signed-in customer's account pages.
// Cached reads are scoped by customer id.
type AccountService interface {
	Profile(ctx context.Context, visitorID string) (domain.Customer, error)
	UpdateProfile(ctx context.Context, visitorID string, f form.Profile) (domain.Customer, error)

	AddToWishlist(ctx context.Context, visitorID, productID string) (domain.Customer, error)
	RemoveFromWishlist(ctx context.Context, visitorID, productID string) (domain.Customer, error)

	AddAddress(ctx context.Context, visitorID string, f form.Address) (domain.Customer, error)
	UpdateAddress(ctx context.Context, visitorID, addressID string, f form.Address) (domain.Customer, error)
	DeleteAddress(ctx context.Context, visitorID, addressID string) (domain.Customer, error)

	Orders(ctx context.Context, visitorID string) ([]domain.Order, error)
	Order(ctx context.Context, visitorID, orderID string) (domain.Order, error)
}

type accountService struct {
	stores    *Stores
	sessions  SessionService
	customers CustomersClient
	orders    OrdersClient
	cache     *cache.Cache
	logger    *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(stores *Stores, sessions SessionService, customers CustomersClient, orders OrdersClient, c *cache.Cache, logger *slog.Logger) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{
		stores:    stores,
		sessions:  sessions,
		customers: customers,
		orders:    orders,
		cache:     c,
		logger:    logger,
	}
}

// customer returns the signed-in customer or ErrLoginRequired.
func (s *accountService) customer(ctx context.Context, visitorID string) (domain.Customer, error) {
	sess, err := s.stores.Session(ctx, visitorID, notify.Discard)
	if err != nil {
		return domain.Customer{}, err
	}
	u, ok := sess.User()
	if !ok || !sess.IsAuthenticated() {
		return domain.Customer{}, ErrLoginRequired
	}
	return u, nil
}

func (s *accountService) Profile(ctx context.Context, visitorID string) (domain.Customer, error) {
	u, err := s.customer(ctx, visitorID)
	if err != nil {
		return domain.Customer{}, err
	}
	return s.profile(ctx, u.ID)
}

func (s *accountService) profile(ctx context.Context, customerID string) (domain.Customer, error) {
	key := cache.Key{Resource: cache.ResourceProfile, Scope: customerID}
	return cache.GetOrLoad(ctx, s.cache, key, s.customers.Profile)
}

func (s *accountService) UpdateProfile(ctx context.Context, visitorID string, f form.Profile) (domain.Customer, error) {
	const op = "account.update_profile"
	if err := form.Validate(op, f); err != nil {
		return domain.Customer{}, err
	}
	u, err := s.customer(ctx, visitorID)
	if err != nil {
		return domain.Customer{}, err
	}

	n := notify.From(ctx)
	updated, err := s.customers.UpdateProfile(ctx, f.Update())
	if err != nil {
		n.Error(domain.MessageOr(err, "Failed to update profile"))
		return domain.Customer{}, err
	}
	s.cache.Invalidate(cache.ProfileUpdate, u.ID)
	if err := s.sessions.UpdateUser(ctx, visitorID, updated); err != nil {
		s.logger.Error("failed to refresh session user", "visitor_id", visitorID, "error", err)
	}

	n.Success("Profile updated successfully!")
	return updated, nil
}

func (s *accountService) AddToWishlist(ctx context.Context, visitorID, productID string) (domain.Customer, error) {
	return s.write(ctx, visitorID, cache.WishlistAdd, "Added to wishlist!", "Failed to add to wishlist",
		func(ctx context.Context) error {
			return s.customers.AddToWishlist(ctx, productID)
		})
}

func (s *accountService) RemoveFromWishlist(ctx context.Context, visitorID, productID string) (domain.Customer, error) {
	return s.write(ctx, visitorID, cache.WishlistRemove, "Removed from wishlist", "Failed to remove from wishlist",
		func(ctx context.Context) error {
			return s.customers.RemoveFromWishlist(ctx, productID)
		})
}

func (s *accountService) AddAddress(ctx context.Context, visitorID string, f form.Address) (domain.Customer, error) {
	if err := form.Validate("account.add_address", f); err != nil {
		return domain.Customer{}, err
	}
	return s.write(ctx, visitorID, cache.AddressAdd, "Address added successfully", "Failed to add address",
		func(ctx context.Context) error {
			return s.customers.AddAddress(ctx, f.Address())
		})
}

func (s *accountService) UpdateAddress(ctx context.Context, visitorID, addressID string, f form.Address) (domain.Customer, error) {
	if err := form.Validate("account.update_address", f); err != nil {
		return domain.Customer{}, err
	}
	return s.write(ctx, visitorID, cache.AddressUpdate, "Address updated successfully", "Failed to update address",
		func(ctx context.Context) error {
			return s.customers.UpdateAddress(ctx, addressID, f.Address())
		})
}

func (s *accountService) DeleteAddress(ctx context.Context, visitorID, addressID string) (domain.Customer, error) {
	return s.write(ctx, visitorID, cache.AddressDelete, "Address deleted successfully", "Failed to delete address",
		func(ctx context.Context) error {
			return s.customers.DeleteAddress(ctx, addressID)
		})
}

// write performs a profile sub-resource change, invalidates the profile and
// returns the refreshed customer, which also replaces the session user.
func (s *accountService) write(ctx context.Context, visitorID string, m cache.Mutation, success, failure string, call func(context.Context) error) (domain.Customer, error) {
	u, err := s.customer(ctx, visitorID)
	if err != nil {
		return domain.Customer{}, err
	}

	n := notify.From(ctx)
	if err := call(ctx); err != nil {
		n.Error(domain.MessageOr(err, failure))
		return domain.Customer{}, err
	}
	s.cache.Invalidate(m, u.ID)
	n.Success(success)

	fresh, err := s.profile(ctx, u.ID)
	if err != nil {
		// The write went through; the page refetches on its next load.
		s.logger.Warn("failed to refresh profile", "visitor_id", visitorID, "error", err)
		return u, nil
	}
	if err := s.sessions.UpdateUser(ctx, visitorID, fresh); err != nil {
		s.logger.Error("failed to refresh session user", "visitor_id", visitorID, "error", err)
	}
	return fresh, nil
}

func (s *accountService) Orders(ctx context.Context, visitorID string) ([]domain.Order, error) {
	u, err := s.customer(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	key := cache.Key{Resource: cache.ResourceMyOrders, Scope: u.ID}
	return cache.GetOrLoad(ctx, s.cache, key, s.orders.Mine)
}

func (s *accountService) Order(ctx context.Context, visitorID, orderID string) (domain.Order, error) {
	u, err := s.customer(ctx, visitorID)
	if err != nil {
		return domain.Order{}, err
	}
	key := cache.Key{Resource: cache.ResourceOrder, Scope: u.ID, ID: orderID}
	o, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (domain.Order, error) {
		return s.orders.Get(ctx, orderID)
	})
	if err != nil {
		return domain.Order{}, notFound(err, ErrOrderNotFound)
	}
	return o, nil
}
