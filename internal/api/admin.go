package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// OrderStatuses are the states an order may be moved to.
var OrderStatuses = []string{"pending", "confirmed", "shipped", "delivered", "cancelled"}

// Admin exposes the admin console endpoints.
type Admin struct {
	client Requester
}

// NewAdmin binds the admin endpoints to client.
func NewAdmin(client Requester) *Admin {
	return &Admin{client: client}
}

// Login authenticates a staff account for the admin console.
func (a *Admin) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if err := validCredentials(username, password); err != nil {
		return nil, err
	}

	var out TokenPair
	if err := a.client.Do(ctx, http.MethodPost, "admin/login/", credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns dashboard totals.
func (a *Admin) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := a.client.Get(ctx, "admin/stats/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists accounts, optionally matching search against username, email
// and full name.
func (a *Admin) Users(ctx context.Context, search string) ([]User, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}

	var out []User
	if err := a.client.Get(ctx, "admin/users/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User returns one account.
func (a *Admin) User(ctx context.Context, id int) (*User, error) {
	var out User
	if err := a.client.Get(ctx, fmt.Sprintf("admin/users/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserPatch holds the account fields an admin may change.
type UserPatch struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// UpdateUser applies patch to an account.
func (a *Admin) UpdateUser(ctx context.Context, id int, patch UserPatch) (*User, error) {
	var out User
	if err := a.client.Do(ctx, http.MethodPatch, fmt.Sprintf("admin/users/%d/", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account.
func (a *Admin) DeleteUser(ctx context.Context, id int) error {
	return a.client.Do(ctx, http.MethodDelete, fmt.Sprintf("admin/users/%d/", id), nil, nil)
}

// CreateAdminRequest creates a staff account.
type CreateAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

// CreateAdmin creates a new staff account.
func (a *Admin) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*User, error) {
	if err := validCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	var out User
	if err := a.client.Do(ctx, http.MethodPost, "admin/create-admin/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleStaff flips an account's staff flag.
func (a *Admin) ToggleStaff(ctx context.Context, id int) (*User, error) {
	var out User
	if err := a.client.Do(ctx, http.MethodPatch, fmt.Sprintf("admin/users/%d/toggle-staff/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ban bans an active account with reason, or unbans a banned one. The reason
// is only required when the account is currently active.
func (a *Admin) Ban(ctx context.Context, user User, reason string) (*User, error) {
	reason = strings.TrimSpace(reason)
	if user.IsActive && reason == "" {
		return nil, ErrBanReasonRequired
	}

	var out User
	if err := a.client.Do(ctx, http.MethodPatch, fmt.Sprintf("admin/users/%d/ban/", user.ID), map[string]string{"reason": reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductInput creates or updates a product. A nil ImageURLs leaves the image
// carousel unchanged; an empty one clears it.
type ProductInput struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	CategoryID  *int     `json:"category_id,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

func (in ProductInput) MarshalJSON() ([]byte, error) {
	type plain ProductInput
	out := struct {
		plain
		ImageURLs *[]string `json:"image_urls,omitempty"`
	}{plain: plain(in)}
	if in.ImageURLs != nil {
		out.ImageURLs = &in.ImageURLs
	}
	return json.Marshal(out)
}

// Products lists every product, including unavailable ones.
func (a *Admin) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := a.client.Get(ctx, "admin/products/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct adds a product to the catalogue.
func (a *Admin) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var out Product
	if err := a.client.Do(ctx, http.MethodPost, "admin/products/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct changes the given fields of a product.
func (a *Admin) UpdateProduct(ctx context.Context, id int, in ProductInput) (*Product, error) {
	var out Product
	if err := a.client.Do(ctx, http.MethodPatch, fmt.Sprintf("admin/products/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product.
func (a *Admin) DeleteProduct(ctx context.Context, id int) error {
	return a.client.Do(ctx, http.MethodDelete, fmt.Sprintf("admin/products/%d/", id), nil, nil)
}

// OrderFilter narrows the admin order listing. From and To are YYYY-MM-DD dates.
type OrderFilter struct {
	Status string
	User   string
	Search string
	From   string
	To     string
}

func (f OrderFilter) values() url.Values {
	q := url.Values{}
	for k, v := range map[string]string{
		"status": f.Status,
		"user":   f.User,
		"search": f.Search,
		"from":   f.From,
		"to":     f.To,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// Orders lists all orders.
func (a *Admin) Orders(ctx context.Context, filter OrderFilter) ([]Order, error) {
	if filter.Status != "" && !slices.Contains(OrderStatuses, filter.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}

	var out []Order
	if err := a.client.Get(ctx, "admin/orders/", filter.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Order returns one order.
func (a *Admin) Order(ctx context.Context, id int) (*Order, error) {
	var out Order
	if err := a.client.Get(ctx, fmt.Sprintf("admin/orders/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus moves an order to status.
func (a *Admin) UpdateOrderStatus(ctx context.Context, id int, status string) (*Order, error) {
	if !slices.Contains(OrderStatuses, status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var out Order
	if err := a.client.Do(ctx, http.MethodPatch, fmt.Sprintf("admin/orders/%d/", id), map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
