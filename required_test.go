package jwx

import (
	"errors"
	"reflect"
	"testing"
)

func TestUnmarshalWithRequired(t *testing.T) {
	type Nested struct {
		Name string `json:"name,required"`
	}

	type UserClaims struct {
		Username string  `json:"username,required"`
		Age      int     `json:"age,required"`
		Nested   *Nested `json:"nested"`
	}

	var claims UserClaims
	if err := UnmarshalWithRequired([]byte(`{"username":"kataras","age":27,"nested":{"name":"k"}}`), &claims); err != nil {
		t.Fatal(err)
	}

	if expected, got := "kataras", claims.Username; expected != got {
		t.Fatalf("expected claims{username} to be: %s but got: %s", expected, got)
	}

	// The required check recurses through pointers into nested structs.
	var nestedMissing UserClaims
	err := UnmarshalWithRequired([]byte(`{"username":"kataras","age":27,"nested":{"name":""}}`), &nestedMissing)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected error: ErrMissingField but got: %v", err)
	}

	var ageMissing UserClaims
	err = UnmarshalWithRequired([]byte(`{"username":"kataras"}`), &ageMissing)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected error: ErrMissingField but got: %v", err)
	}

	// The verdict names the offending field.
	if expected, got := ErrMissingField.Error()+`: "Age"`, err.Error(); expected != got {
		t.Fatalf("expected error message: %s but got: %s", expected, got)
	}

	// An absent nested struct has nothing to check.
	var noNested UserClaims
	if err = UnmarshalWithRequired([]byte(`{"username":"kataras","age":27}`), &noNested); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	// Non-struct destinations pass through.
	var plain Map
	if err = UnmarshalWithRequired([]byte(`{"username":"kataras"}`), &plain); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
}

func TestHasRequiredJSONTag(t *testing.T) {
	type sample struct {
		A string `json:"a,required"`
		B string `json:"b"`
		C string
	}

	typ := reflect.TypeOf(sample{})

	if !HasRequiredJSONTag(typ.Field(0)) {
		t.Fatalf("expected field A to be required")
	}

	if HasRequiredJSONTag(typ.Field(1)) {
		t.Fatalf("expected field B to not be required")
	}

	if HasRequiredJSONTag(typ.Field(2)) {
		t.Fatalf("expected an untagged field to not be required")
	}
}
