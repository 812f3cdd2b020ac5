package apiclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCatalogueRead(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/api/products/", true},
		{http.MethodGet, "/api/products/4/", true},
		{http.MethodGet, "/api/categories/", true},
		{http.MethodGet, "/api/admin/products/", false},
		{http.MethodPost, "/api/products/", false},
		{http.MethodGet, "/api/cart/", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "http://luxe.test"+tt.path, nil)
		assert.Equal(t, tt.want, isCatalogueRead(req), "%s %s", tt.method, tt.path)
	}
}

func TestCachingTransport_ServesFreshCatalogueFromCache(t *testing.T) {
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewCachingTransport(http.DefaultTransport, "")}

	for range 3 {
		for _, p := range []string{"/api/products/", "/api/cart/"} {
			resp, err := client.Get(srv.URL + p)
			require.NoError(t, err)
			// the cache only stores bodies that were read to EOF
			_, _ = io.ReadAll(resp.Body)
			_ = resp.Body.Close()
		}
	}

	assert.Equal(t, 1, hits["/api/products/"])
	assert.Equal(t, 3, hits["/api/cart/"])
}
