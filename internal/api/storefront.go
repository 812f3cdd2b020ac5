package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Storefront exposes the customer-facing endpoints.
type Storefront struct {
	client Requester
}

// NewStorefront binds the customer endpoints to client.
func NewStorefront(client Requester) *Storefront {
	return &Storefront{client: client}
}

// Login exchanges credentials for a token pair.
func (s *Storefront) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if err := validCredentials(username, password); err != nil {
		return nil, err
	}

	var out TokenPair
	if err := s.client.Do(ctx, http.MethodPost, "login/", credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignupRequest registers a new customer account.
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup creates an account and returns its token pair.
func (s *Storefront) Signup(ctx context.Context, req SignupRequest) (*TokenPair, error) {
	if err := validCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	var out TokenPair
	if err := s.client.Do(ctx, http.MethodPost, "signup/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken obtains a new access token.
func (s *Storefront) RefreshToken(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", ErrMissingRefresh
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := s.client.Do(ctx, http.MethodPost, "token/refresh/", map[string]string{"refresh": refresh}, &out); err != nil {
		return "", err
	}
	return out.Access, nil
}

// Profile returns the logged-in user's account.
func (s *Storefront) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := s.client.Get(ctx, "profile/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductFilter narrows the catalogue listing.
type ProductFilter struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
	// Ordering is one of price, -price, name, -name, created_at, -created_at.
	Ordering string
}

func (f ProductFilter) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("min_price", f.MinPrice)
	set("max_price", f.MaxPrice)
	set("ordering", f.Ordering)
	return q
}

// Products lists available products.
func (s *Storefront) Products(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var out []Product
	if err := s.client.Get(ctx, "products/", filter.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product returns a single product.
func (s *Storefront) Product(ctx context.Context, id int) (*Product, error) {
	var out Product
	if err := s.client.Get(ctx, fmt.Sprintf("products/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists product categories.
func (s *Storefront) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := s.client.Get(ctx, "categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cart returns the current cart.
func (s *Storefront) Cart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := s.client.Get(ctx, "cart/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart adds quantity units of a product. The server caps the total at the
// available stock.
func (s *Storefront) AddToCart(ctx context.Context, productID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	body := map[string]int{"product_id": productID, "quantity": quantity}
	return s.cartCall(ctx, http.MethodPost, "cart/add/", body)
}

// UpdateCartItem sets the quantity of a cart line.
func (s *Storefront) UpdateCartItem(ctx context.Context, itemID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	return s.cartCall(ctx, http.MethodPatch, fmt.Sprintf("cart/items/%d/", itemID), map[string]int{"quantity": quantity})
}

// RemoveCartItem deletes a cart line.
func (s *Storefront) RemoveCartItem(ctx context.Context, itemID int) (*Cart, error) {
	return s.cartCall(ctx, http.MethodDelete, fmt.Sprintf("cart/items/%d/", itemID), nil)
}

// ClearCart deletes every cart line.
func (s *Storefront) ClearCart(ctx context.Context) (*Cart, error) {
	return s.cartCall(ctx, http.MethodDelete, "cart/clear/", nil)
}

func (s *Storefront) cartCall(ctx context.Context, method, path string, body any) (*Cart, error) {
	var out Cart
	if err := s.client.Do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout places an order for the given cart lines, or the whole cart when
// itemIDs is empty.
func (s *Storefront) Checkout(ctx context.Context, itemIDs []int) (*Order, error) {
	body := map[string]any{}
	if len(itemIDs) > 0 {
		body["item_ids"] = itemIDs
	}

	var out Order
	if err := s.client.Do(ctx, http.MethodPost, "orders/checkout/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders returns the logged-in user's order history.
func (s *Storefront) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.client.Get(ctx, "orders/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
