package cache

// Mutation names a write made through the storefront.
type Mutation string

const (
	OrderCreate       Mutation = "order.create"
	OrderUpdateStatus Mutation = "order.update-status"
	ProfileUpdate     Mutation = "profile.update"
	WishlistAdd       Mutation = "wishlist.add"
	WishlistRemove    Mutation = "wishlist.remove"
	AddressAdd        Mutation = "address.add"
	AddressUpdate     Mutation = "address.update"
	AddressDelete     Mutation = "address.delete"
	ProductCreate     Mutation = "product.create"
	ProductUpdate     Mutation = "product.update"
	ProductDelete     Mutation = "product.delete"
	ProductBulkDelete Mutation = "product.bulk-delete"
)

// Rule invalidates one resource. A scoped rule only drops entries of the
// visitor that made the write.
type Rule struct {
	Resource Resource
	Scoped   bool
}

var profileOnly = []Rule{{Resource: ResourceProfile, Scoped: true}}

var catalog = []Rule{
	{Resource: ResourceProducts},
	{Resource: ResourceProduct},
	{Resource: ResourceFeatured},
	{Resource: ResourceStats},
}

// Invalidations is the static table of which writes make which reads stale.
var Invalidations = map[Mutation][]Rule{
	OrderCreate: {
		{Resource: ResourceMyOrders, Scoped: true},
		{Resource: ResourceAdminOrders},
		{Resource: ResourceStats},
	},
	OrderUpdateStatus: {
		{Resource: ResourceAdminOrders},
		{Resource: ResourceOrder},
		{Resource: ResourceMyOrders},
		{Resource: ResourceStats},
	},
	ProfileUpdate:     profileOnly,
	WishlistAdd:       profileOnly,
	WishlistRemove:    profileOnly,
	AddressAdd:        profileOnly,
	AddressUpdate:     profileOnly,
	AddressDelete:     profileOnly,
	ProductCreate:     catalog,
	ProductUpdate:     catalog,
	ProductDelete:     catalog,
	ProductBulkDelete: catalog,
}
