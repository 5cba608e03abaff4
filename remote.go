package jwx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const defaultKeySetTTL = 15 * time.Minute

// HTTPClient is the subset of *http.Client used to fetch remote key
// sets, kept narrow so tests and custom transports can stand in.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteKeySet mirrors the JWKS document published at a fixed URL,
// usually one ending in /.well-known/jwks.json. Fetched keys are
// cached until a TTL passes, and an unknown key id forces one refetch
// so freshly rotated keys are picked up without waiting out the TTL.
// All methods are safe for concurrent use.
//
// Example Code:
//
//	keys := jwx.NewRemoteKeySet("https://idp.example.com/.well-known/jwks.json")
//	key, err := keys.Select(ctx, kid)
type RemoteKeySet struct {
	url    string
	client HTTPClient
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.RWMutex
	keys    *KeySet
	fetched time.Time
}

// RemoteKeySetOption configures a RemoteKeySet.
type RemoteKeySetOption func(*RemoteKeySet)

// WithHTTPClient replaces the http.DefaultClient used for fetching.
func WithHTTPClient(client HTTPClient) RemoteKeySetOption {
	return func(s *RemoteKeySet) {
		s.client = client
	}
}

// WithTTL overrides the fifteen minute default cache lifetime. A
// non-positive ttl refetches on every Select.
func WithTTL(ttl time.Duration) RemoteKeySetOption {
	return func(s *RemoteKeySet) {
		s.ttl = ttl
	}
}

// WithLogger attaches a logger for fetch diagnostics. Refresh failures
// during Select are served from the cached set and only surface here.
func WithLogger(logger *slog.Logger) RemoteKeySetOption {
	return func(s *RemoteKeySet) {
		s.logger = logger
	}
}

// NewRemoteKeySet points a key set mirror at the given JWKS URL.
// Nothing is fetched until the first Select or Refresh call.
func NewRemoteKeySet(url string, opts ...RemoteKeySetOption) *RemoteKeySet {
	s := &RemoteKeySet{
		url:    url,
		client: http.DefaultClient,
		ttl:    defaultKeySetTTL,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Refresh fetches the document now and replaces the cached set on
// success. Transport and HTTP failures yield ErrKeysFetch; a body that
// is not a key set yields ErrDecodeSegment. The cached set stays in
// place either way.
func (s *RemoteKeySet) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return ErrKeysFetch
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return ErrKeysFetch
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ErrKeysFetch
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrKeysFetch
	}

	set, err := ParseKeySet(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.keys = set
	s.fetched = Clock()
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "key set refreshed", "url", s.url, "keys", set.Len())
	return nil
}

func (s *RemoteKeySet) snapshot() (*KeySet, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys, s.fetched
}

// Select resolves a key id against the mirrored document, fetching or
// refreshing it as needed. When a refresh fails while a previous fetch
// is still cached, the stale set keeps serving and the failure goes to
// the logger. An id that stays unknown after a forced refetch fails
// with ErrUnknownKid.
func (s *RemoteKeySet) Select(ctx context.Context, kid string) (*Jwk, error) {
	set, fetched := s.snapshot()

	if set == nil {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		set, _ = s.snapshot()
	} else if Clock().Sub(fetched) > s.ttl {
		if err := s.Refresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "serving stale key set", "url", s.url, "error", err)
		} else {
			set, _ = s.snapshot()
		}
	}

	key, err := set.Select(kid)
	if err == nil {
		return key, nil
	}

	// The id may belong to a key rotated in after the last fetch.
	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		s.logger.WarnContext(ctx, "key set refetch failed", "url", s.url, "error", refreshErr)
		return nil, err
	}

	set, _ = s.snapshot()
	return set.Select(kid)
}

// VerifyWithRemoteSet verifies a token with the key a remote set holds
// for the token's "kid" header, then validates the standard time
// claims and any extra validators, like Verify does for a single key.
func VerifyWithRemoteSet[T any](ctx context.Context, keys *RemoteKeySet, token string, validators ...TokenValidator) (*Jwt[T], error) {
	header, err := peekHeader(token)
	if err != nil {
		return nil, err
	}

	key, err := keys.Select(ctx, header.Kid)
	if err != nil {
		return nil, err
	}

	return Verify[T](token, key, validators...)
}
