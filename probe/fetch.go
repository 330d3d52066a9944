package probe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// UserAgent is the browser User-Agent string sent with probe requests.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0"

// Cache stores probe outcomes so repeated lookups for the same seed do
// not re-hit the platforms.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// NewCache creates a Cache with disk persistence at
// ~/.cache/doppelganger.
func NewCache(ttl time.Duration) (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewCacheWithPath(ttl, filepath.Join(cacheDir, "doppelganger"))
}

// NewCacheWithPath creates a Cache with disk persistence at the given
// path.
func NewCacheWithPath(ttl time.Duration, path string) (*Cache, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("doppelganger", path)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cache{TieredCache: tc, ttl: ttl}, nil
}

// NewNullCache creates a Cache with no persistence (all gets miss, all
// sets discard).
func NewNullCache() *Cache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &Cache{TieredCache: tc, ttl: 0}
}

// HTTPFetcher returns a Fetcher that checks profile existence with an
// anonymous GET. A 200 is a hit, 404 and 410 are definitive misses,
// and anything else is a transport failure. Outcomes are cached when
// cache is non-nil.
func HTTPFetcher(client *http.Client, cache *Cache, logger *slog.Logger) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return func(ctx context.Context, url string) (bool, error) {
		if cache == nil {
			return checkURL(ctx, client, url, logger)
		}

		data, err := cache.GetSet(ctx, urlKey(url), func(ctx context.Context) ([]byte, error) {
			exists, checkErr := checkURL(ctx, client, url, logger)
			if checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		}, cache.ttl)
		if err != nil {
			return false, err
		}
		return len(data) == 1 && data[0] == 1, nil
	}
}

func checkURL(ctx context.Context, client *http.Client, url string, logger *slog.Logger) (bool, error) {
	status, err := retry.DoWithData(
		func() (int, error) {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
			if reqErr != nil {
				return 0, reqErr
			}
			req.Header.Set("User-Agent", UserAgent)

			resp, doErr := client.Do(req)
			if doErr != nil {
				return 0, doErr
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			if isRetryableStatus(resp.StatusCode) {
				return 0, &statusError{status: resp.StatusCode, url: url}
			}
			return resp.StatusCode, nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			if logger != nil {
				logger.Debug("retrying probe", "attempt", n+1, "url", url, "error", err)
			}
		}),
	)
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound, http.StatusGone:
		return false, nil
	default:
		return false, &statusError{status: status, url: url}
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d probing %s", e.status, e.url)
}

// IsNotFound reports whether err represents a definitive miss rather
// than a transport failure.
func IsNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && (se.status == http.StatusNotFound || se.status == http.StatusGone)
}

func urlKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}
