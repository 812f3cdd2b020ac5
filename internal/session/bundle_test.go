package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// plainStore hides the batch methods of the wrapped store.
type plainStore struct {
	tokenstore.Store
}

func TestSlotKeys(t *testing.T) {
	assert.Equal(t, []string{"access", "refresh", "user"}, SlotNormal.Keys().All())
	assert.Equal(t, []string{"admin_access", "admin_refresh", "admin_user"}, SlotAdmin.Keys().All())
}

func TestBundleRoundTrip(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func() tokenstore.Store{
		"batch":      func() tokenstore.Store { return tokenstore.NewMemoryStore() },
		"sequential": func() tokenstore.Store { return plainStore{tokenstore.NewMemoryStore()} },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			b := Bundle{
				AccessToken:  "acc",
				RefreshToken: "ref",
				Identity:     Identity{ID: 7, Username: "root", Email: "root@luxe.test", IsStaff: true},
			}

			require.NoError(t, SaveBundle(ctx, store, SlotAdmin, b))

			loaded, err := LoadBundle(ctx, store, SlotAdmin)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, b, *loaded)

			raw, err := store.Get(ctx, tokenstore.KeyAdminUser)
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":7,"username":"root","email":"root@luxe.test","is_staff":true}`, raw)

			require.NoError(t, ClearBundle(ctx, store, SlotAdmin))
			loaded, err = LoadBundle(ctx, store, SlotAdmin)
			require.NoError(t, err)
			assert.Nil(t, loaded)

			for _, k := range SlotAdmin.Keys().All() {
				_, err := store.Get(ctx, k)
				assert.ErrorIs(t, err, tokenstore.ErrNotFound, k)
			}
		})
	}
}

func TestLoadBundle(t *testing.T) {
	ctx := context.Background()

	t.Run("absent identity", func(t *testing.T) {
		store := tokenstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, tokenstore.KeyAccess, "orphan"))

		b, err := LoadBundle(ctx, store, SlotNormal)
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("identity without tokens", func(t *testing.T) {
		store := tokenstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, tokenstore.KeyUser, `{"name":"ann","is_staff":false}`))

		b, err := LoadBundle(ctx, store, SlotNormal)
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, "ann", b.Identity.Name)
		assert.Empty(t, b.AccessToken)
		assert.Empty(t, b.RefreshToken)
	})

	t.Run("corrupt identity", func(t *testing.T) {
		store := tokenstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, tokenstore.KeyUser, `{"name":`))

		_, err := LoadBundle(ctx, store, SlotNormal)
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	})
}

func TestIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "ann", Identity{Name: "ann", Username: "ann_w"}.DisplayName())
	assert.Equal(t, "ann_w", Identity{Username: "ann_w"}.DisplayName())
	assert.Empty(t, Identity{}.DisplayName())
}
