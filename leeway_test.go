package jwx

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestLeeway(t *testing.T) {
	l := Leeway(10 * time.Second)
	err := l.ValidateToken(nil, Claims{
		Expiry: Clock().Add(8 * time.Second).Unix(),
	}, nil)
	if err != ErrExpired {
		t.Fatalf("expected ErrExpired error but got: %v", err)
	}

	// Outside the window the token passes.
	err = l.ValidateToken(nil, Claims{
		Expiry: Clock().Add(time.Minute).Unix(),
	}, nil)
	if err != nil {
		t.Fatalf("expected a distant expiry to pass but got: %v", err)
	}

	// Tokens without an expiry are unaffected.
	if err = l.ValidateToken(nil, Claims{}, nil); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	// Test respect previous error.
	prevErr := fmt.Errorf("previous")
	if err = l.ValidateToken(nil, Claims{}, prevErr); err != prevErr {
		t.Fatalf("expected to respect the previous error but got: %v", err)
	}
}

func TestLeewayThroughVerify(t *testing.T) {
	prevClock := Clock
	t.Cleanup(func() {
		Clock = prevClock
	})
	Clock = func() time.Time { return time.Unix(1000, 0) }

	token, err := Sign(testKey, Map{"foo": "bar"}, MaxAge(30*time.Second))
	if err != nil {
		t.Fatal(err)
	}

	// Valid on its own, rejected under a one-minute leeway.
	if _, err = Verify[Map](token, testKey); err != nil {
		t.Fatal(err)
	}

	if _, err = Verify[Map](token, testKey, Leeway(time.Minute)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected error: %v but got: %v", ErrExpired, err)
	}
}

func TestFuture(t *testing.T) {
	f := Future(time.Minute)

	// The skew tolerance clears the verdict.
	err := f.ValidateToken(nil, Claims{
		IssuedAt: Clock().Add(30 * time.Second).Unix(),
	}, ErrIssuedInTheFuture)
	if err != nil {
		t.Fatalf("expected the clock skew to be tolerated but got: %v", err)
	}

	// Beyond the tolerance the verdict stands.
	err = f.ValidateToken(nil, Claims{
		IssuedAt: Clock().Add(2 * time.Minute).Unix(),
	}, ErrIssuedInTheFuture)
	if err != ErrIssuedInTheFuture {
		t.Fatalf("expected ErrIssuedInTheFuture error but got: %v", err)
	}

	// Any other verdict passes through untouched.
	if err = f.ValidateToken(nil, Claims{}, nil); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	prevErr := fmt.Errorf("previous")
	if err = f.ValidateToken(nil, Claims{}, prevErr); err != prevErr {
		t.Fatalf("expected to respect the previous error but got: %v", err)
	}
}
