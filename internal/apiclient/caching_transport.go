package apiclient

import (
	"net/http"
	"strings"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// cacheablePaths are the catalogue reads that may be served from cache.
var cacheablePaths = []string{"products/", "categories/"}

// NewCachingTransport returns a transport that caches catalogue GETs honouring
// the server's Cache-Control headers. Everything else goes straight to base.
// If cacheDir is empty, uses an in-memory cache.
func NewCachingTransport(base http.RoundTripper, cacheDir string) http.RoundTripper {
	var cache httpcache.Cache
	if cacheDir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		// Use disk-based cache for persistence across restarts
		cache = diskcache.New(cacheDir)
	}

	cached := httpcache.NewTransport(cache)
	cached.Transport = base

	return &catalogueTransport{cached: cached, base: base}
}

type catalogueTransport struct {
	cached http.RoundTripper
	base   http.RoundTripper
}

func (c *catalogueTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isCatalogueRead(req) {
		return c.cached.RoundTrip(req)
	}
	return c.base.RoundTrip(req)
}

func isCatalogueRead(req *http.Request) bool {
	if req.Method != http.MethodGet || strings.Contains(req.URL.Path, "admin/") {
		return false
	}
	for _, p := range cacheablePaths {
		if strings.Contains(req.URL.Path, p) {
			return true
		}
	}
	return false
}
