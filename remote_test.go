package jwx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testJWKSDocument(t *testing.T, keys ...*Jwk) []byte {
	t.Helper()

	document, err := Marshal(NewKeySet(keys...))
	if err != nil {
		t.Fatal(err)
	}
	return document
}

func TestRemoteKeySet(t *testing.T) {
	document := testJWKSDocument(t, testKey.Public())

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(document)
	}))
	defer srv.Close()

	keys := NewRemoteKeySet(srv.URL)
	ctx := context.Background()

	key, err := keys.Select(ctx, "test")
	if err != nil {
		t.Fatal(err)
	}

	if err = key.Verify(testSigningInput, testSignature); err != nil {
		t.Fatalf("expected the fetched key to verify but got: %v", err)
	}

	// Within the TTL the cached set serves.
	if _, err = keys.Select(ctx, "test"); err != nil {
		t.Fatal(err)
	}

	if expected, got := int32(1), fetches.Load(); expected != got {
		t.Fatalf("expected %d fetch but got: %d", expected, got)
	}
}

func TestRemoteKeySetTTL(t *testing.T) {
	document := testJWKSDocument(t, testKey.Public())

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write(document)
	}))
	defer srv.Close()

	keys := NewRemoteKeySet(srv.URL, WithTTL(0))
	ctx := context.Background()

	if _, err := keys.Select(ctx, "test"); err != nil {
		t.Fatal(err)
	}

	time.Sleep(time.Millisecond)

	if _, err := keys.Select(ctx, "test"); err != nil {
		t.Fatal(err)
	}

	if expected, got := int32(2), fetches.Load(); expected != got {
		t.Fatalf("expected %d fetches but got: %d", expected, got)
	}
}

func TestRemoteKeySetFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	keys := NewRemoteKeySet(srv.URL)
	if _, err := keys.Select(context.Background(), "test"); !errors.Is(err, ErrKeysFetch) {
		t.Fatalf("expected error: %v but got: %v", ErrKeysFetch, err)
	}

	// A dead endpoint reports the same.
	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closed.Close()

	keys = NewRemoteKeySet(closed.URL)
	if _, err := keys.Select(context.Background(), "test"); !errors.Is(err, ErrKeysFetch) {
		t.Fatalf("expected error: %v but got: %v", ErrKeysFetch, err)
	}
}

func TestRemoteKeySetBadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not a key set")
	}))
	defer srv.Close()

	keys := NewRemoteKeySet(srv.URL)
	if _, err := keys.Select(context.Background(), "test"); !errors.Is(err, ErrDecodeSegment) {
		t.Fatalf("expected error: %v but got: %v", ErrDecodeSegment, err)
	}
}

func TestRemoteKeySetRotation(t *testing.T) {
	rotated := *testKey
	rotated.Kid = "rotated"

	current := testJWKSDocument(t, testKey.Public())
	next := testJWKSDocument(t, rotated.Public())

	var (
		fetches   atomic.Int32
		serveNext atomic.Bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		if serveNext.Load() {
			w.Write(next)
			return
		}
		w.Write(current)
	}))
	defer srv.Close()

	keys := NewRemoteKeySet(srv.URL)
	ctx := context.Background()

	if _, err := keys.Select(ctx, "test"); err != nil {
		t.Fatal(err)
	}

	// The issuer rotates its keys. The unknown id forces a refetch well
	// before the TTL passes.
	serveNext.Store(true)

	key, err := keys.Select(ctx, "rotated")
	if err != nil {
		t.Fatal(err)
	}

	if expected, got := "rotated", key.Kid; expected != got {
		t.Fatalf("expected kid: %s but got: %s", expected, got)
	}

	if expected, got := int32(2), fetches.Load(); expected != got {
		t.Fatalf("expected %d fetches but got: %d", expected, got)
	}

	// An id that stays unknown after the refetch is reported as such.
	if _, err = keys.Select(ctx, "missing"); !errors.Is(err, ErrUnknownKid) {
		t.Fatalf("expected error: %v but got: %v", ErrUnknownKid, err)
	}
}

func TestRemoteKeySetServesStale(t *testing.T) {
	document := testJWKSDocument(t, testKey.Public())

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write(document)
	}))
	defer srv.Close()

	var log bytes.Buffer
	keys := NewRemoteKeySet(srv.URL,
		WithTTL(0),
		WithLogger(slog.New(slog.NewTextHandler(&log, nil))),
	)
	ctx := context.Background()

	if _, err := keys.Select(ctx, "test"); err != nil {
		t.Fatal(err)
	}

	fail.Store(true)
	time.Sleep(time.Millisecond)

	// The TTL has passed and the refresh fails: the stale set serves and
	// the failure goes to the logger.
	key, err := keys.Select(ctx, "test")
	if err != nil {
		t.Fatal(err)
	}

	if err = key.Verify(testSigningInput, testSignature); err != nil {
		t.Fatalf("expected the stale key to verify but got: %v", err)
	}

	if !strings.Contains(log.String(), "serving stale key set") {
		t.Fatalf("expected a stale warning in the log but got: %s", log.String())
	}
}

type staticHTTPClient []byte

func (c staticHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(c)),
	}, nil
}

func TestRemoteKeySetWithHTTPClient(t *testing.T) {
	keys := NewRemoteKeySet("http://keys.invalid/jwks.json",
		WithHTTPClient(staticHTTPClient(testJWKSDocument(t, testKey.Public()))),
	)

	key, err := keys.Select(context.Background(), "test")
	if err != nil {
		t.Fatal(err)
	}

	if err = key.Verify(testSigningInput, testSignature); err != nil {
		t.Fatalf("expected the key to verify but got: %v", err)
	}
}

func TestVerifyWithRemoteSet(t *testing.T) {
	document := testJWKSDocument(t, testKey.Public())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(document)
	}))
	defer srv.Close()

	keys := NewRemoteKeySet(srv.URL)
	ctx := context.Background()

	token, err := VerifyWithRemoteSet[testClaims](ctx, keys, testSignedToken)
	if err != nil {
		t.Fatal(err)
	}

	if expected, got := testPayload, token.Payload; expected != got {
		t.Fatalf("expected payload: %#v but got: %#v", expected, got)
	}

	if _, err = VerifyWithRemoteSet[testClaims](ctx, keys, "garbage"); !errors.Is(err, ErrTokenForm) {
		t.Fatalf("expected error: %v but got: %v", ErrTokenForm, err)
	}

	ghost := *testKey
	ghost.Kid = "ghost"
	ghostToken, err := Sign(&ghost, testPayload)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = VerifyWithRemoteSet[testClaims](ctx, keys, ghostToken); !errors.Is(err, ErrUnknownKid) {
		t.Fatalf("expected error: %v but got: %v", ErrUnknownKid, err)
	}
}
