package api

// User is the account representation returned by the server.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	IsStaff    bool   `json:"is_staff"`
	IsActive   bool   `json:"is_active"`
	BanReason  string `json:"ban_reason"`
	DateJoined string `json:"date_joined"`
}

// TokenPair is the body returned by login and signup.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

// Category groups products.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductImage is one entry of a product's image carousel.
type ProductImage struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// Product is a catalogue entry. Prices are decimal strings as sent by the server.
type Product struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        string         `json:"price"`
	ImageURL     string         `json:"image_url"`
	Images       []ProductImage `json:"images"`
	PrimaryImage *string        `json:"primary_image"`
	Category     *Category      `json:"category"`
	Stock        int            `json:"stock"`
	IsAvailable  bool           `json:"is_available"`
	CreatedAt    string         `json:"created_at"`
}

// CartItem is one line of the cart.
type CartItem struct {
	ID       int     `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal string  `json:"subtotal"`
}

// Cart is the server's cart representation.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     string     `json:"total"`
	ItemCount int        `json:"item_count"`
}

// OrderItem is a purchased line, with name and price captured at checkout.
type OrderItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// Order is a placed order.
type Order struct {
	ID        int         `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Status    string      `json:"status"`
	Total     string      `json:"total"`
	Items     []OrderItem `json:"items"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

// Stats summarises the store for the admin dashboard.
type Stats struct {
	TotalUsers    int    `json:"total_users"`
	TotalProducts int    `json:"total_products"`
	TotalOrders   int    `json:"total_orders"`
	TotalRevenue  Amount `json:"total_revenue"`
}
