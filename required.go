package jwx

import (
	"fmt"
	"reflect"
	"strings"
)

// UnmarshalWithRequired binds JSON data to dest like Unmarshal and then
// checks that every struct field tagged with `json:"...,required"` is
// non-zero, recursing into nested structs. A zero required field fails
// with ErrMissingField, annotated with the field name.
//
// The Parser applies the same check through WithRequiredFields.
//
// Example Code:
//
//	type UserClaims struct {
//	    Username string `json:"username,required"`
//	    Email    string `json:"email"`
//	}
func UnmarshalWithRequired(data []byte, dest any) error {
	if err := Unmarshal(data, dest); err != nil {
		return err
	}

	return meetRequirements(reflect.ValueOf(dest))
}

// HasRequiredJSONTag reports whether an exported struct field is
// marked with the `json:"...,required"` tag syntax.
func HasRequiredJSONTag(field reflect.StructField) bool {
	if isExported := field.PkgPath == ""; !isExported {
		return false
	}

	tag := field.Tag.Get("json")
	return strings.Contains(tag, ",required")
}

func meetRequirements(val reflect.Value) (err error) {
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		// skip unexported fields here.
		if isExported := field.PkgPath == ""; !isExported {
			continue
		}

		if fieldTyp := indirectType(field.Type); fieldTyp.Kind() == reflect.Struct {
			if err = meetRequirements(val.Field(i)); err != nil {
				return err
			}

			continue
		}

		if HasRequiredJSONTag(field) {
			if val.Field(i).IsZero() {
				return fmt.Errorf("%w: %q", ErrMissingField, field.Name)
			}
		}
	}

	return
}

// indirectType unwraps pointer and container types down to the
// element type.
func indirectType(typ reflect.Type) reflect.Type {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Array, reflect.Chan, reflect.Map, reflect.Slice:
		return typ.Elem()
	}
	return typ
}
