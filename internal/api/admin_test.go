package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_Login(t *testing.T) {
	ctx := context.Background()

	f := &fakeRequester{response: `{"access":"aa","refresh":"ar","user":{"id":9,"username":"root","is_staff":true}}`}
	pair, err := NewAdmin(f).Login(ctx, "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, "admin/login/", f.last(t).Path)
	assert.True(t, pair.User.IsStaff)

	_, err = NewAdmin(f).Login(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAdmin_Stats(t *testing.T) {
	f := &fakeRequester{response: `{"total_users":4,"total_products":10,"total_orders":3,"total_revenue":125.5}`}
	stats, err := NewAdmin(f).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, Amount("125.5"), stats.TotalRevenue)
}

func TestAdmin_Users(t *testing.T) {
	ctx := context.Background()
	f := &fakeRequester{response: `[{"id":1,"username":"alice","is_active":true}]`}
	a := NewAdmin(f)

	users, err := a.Users(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ali", f.last(t).Query.Get("search"))

	_, err = a.Users(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, f.last(t).Query)
}

func TestAdmin_Ban(t *testing.T) {
	ctx := context.Background()

	t.Run("active user needs a reason", func(t *testing.T) {
		f := &fakeRequester{}
		_, err := NewAdmin(f).Ban(ctx, User{ID: 1, IsActive: true}, "  ")
		assert.ErrorIs(t, err, ErrBanReasonRequired)
		assert.Empty(t, f.calls)
	})

	t.Run("bans with reason", func(t *testing.T) {
		f := &fakeRequester{response: `{"id":1,"is_active":false,"ban_reason":"spam"}`}
		u, err := NewAdmin(f).Ban(ctx, User{ID: 1, IsActive: true}, "spam")
		require.NoError(t, err)
		c := f.last(t)
		assert.Equal(t, http.MethodPatch, c.Method)
		assert.Equal(t, "admin/users/1/ban/", c.Path)
		assert.JSONEq(t, `{"reason":"spam"}`, c.Body)
		assert.False(t, u.IsActive)
	})

	t.Run("banned user is unbanned without a reason", func(t *testing.T) {
		f := &fakeRequester{response: `{"id":1,"is_active":true}`}
		u, err := NewAdmin(f).Ban(ctx, User{ID: 1, IsActive: false}, "")
		require.NoError(t, err)
		assert.True(t, u.IsActive)
	})
}

func TestAdmin_UserManagement(t *testing.T) {
	ctx := context.Background()
	f := &fakeRequester{response: `{"id":5,"username":"eve","is_staff":true}`}
	a := NewAdmin(f)

	_, err := a.ToggleStaff(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, call{Method: http.MethodPatch, Path: "admin/users/5/toggle-staff/"}, f.last(t))

	email := "eve@example.com"
	_, err = a.UpdateUser(ctx, 5, UserPatch{Email: &email})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"eve@example.com"}`, f.last(t).Body)

	require.NoError(t, a.DeleteUser(ctx, 5))
	assert.Equal(t, http.MethodDelete, f.last(t).Method)

	_, err = a.CreateAdmin(ctx, CreateAdminRequest{Username: "ops", Email: "ops@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "admin/create-admin/", f.last(t).Path)
	assert.JSONEq(t, `{"username":"ops","email":"ops@example.com","password":"pw"}`, f.last(t).Body)
}

func TestAdmin_Products(t *testing.T) {
	ctx := context.Background()
	f := &fakeRequester{response: `{"id":3,"name":"Scarf","price":"12.00","stock":0}`}
	a := NewAdmin(f)

	stock := 0
	available := false
	_, err := a.UpdateProduct(ctx, 3, ProductInput{Price: "12.00", Stock: &stock, IsAvailable: &available})
	require.NoError(t, err)
	c := f.last(t)
	assert.Equal(t, http.MethodPatch, c.Method)
	assert.Equal(t, "admin/products/3/", c.Path)
	assert.JSONEq(t, `{"price":"12.00","stock":0,"is_available":false}`, c.Body)

	category := 2
	_, err = a.CreateProduct(ctx, ProductInput{Name: "Scarf", Price: "12.00", CategoryID: &category, ImageURLs: []string{"a.jpg", "b.jpg"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Scarf","price":"12.00","category_id":2,"image_urls":["a.jpg","b.jpg"]}`, f.last(t).Body)

	require.NoError(t, a.DeleteProduct(ctx, 3))
	assert.Equal(t, "admin/products/3/", f.last(t).Path)
}

func TestProductInput_ImageURLs(t *testing.T) {
	tests := []struct {
		name string
		in   ProductInput
		want string
	}{
		{"nil leaves images alone", ProductInput{Name: "Scarf"}, `{"name":"Scarf"}`},
		{"empty clears images", ProductInput{ImageURLs: []string{}}, `{"image_urls":[]}`},
		{"replaces images", ProductInput{ImageURLs: []string{"a.jpg"}}, `{"image_urls":["a.jpg"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestAdmin_Orders(t *testing.T) {
	ctx := context.Background()

	t.Run("filter becomes query", func(t *testing.T) {
		f := &fakeRequester{response: `[]`}
		_, err := NewAdmin(f).Orders(ctx, OrderFilter{Status: "shipped", From: "2024-01-01"})
		require.NoError(t, err)
		q := f.last(t).Query
		assert.Equal(t, "shipped", q.Get("status"))
		assert.Equal(t, "2024-01-01", q.Get("from"))
		assert.False(t, q.Has("to"))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		f := &fakeRequester{}
		_, err := NewAdmin(f).Orders(ctx, OrderFilter{Status: "lost"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
		_, err = NewAdmin(f).UpdateOrderStatus(ctx, 1, "lost")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Empty(t, f.calls)
	})

	t.Run("status update", func(t *testing.T) {
		f := &fakeRequester{response: `{"id":1,"status":"delivered"}`}
		o, err := NewAdmin(f).UpdateOrderStatus(ctx, 1, "delivered")
		require.NoError(t, err)
		assert.Equal(t, "delivered", o.Status)
		assert.JSONEq(t, `{"status":"delivered"}`, f.last(t).Body)
	})
}
