// Package validate checks user input before it reaches the services. It wraps
// go-playground/validator with the custom tags the registration and login
// forms need, and reports failures as field -> message.
package validate

import (
	"encoding/base32"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	validator "github.com/go-playground/validator/v10"
)

// ForbiddenChars may not appear in names or the TOTP secret.
const ForbiddenChars = `*?!'^+%&/()=}][{$#@<>`

const (
	PasswordMinLen = 6
	PasswordMaxLen = 12
	PinKeyLen      = 32
	OTPLen         = 6
)

var phonePattern = regexp.MustCompile(`^\d{4}-\d{3}-\d{4}$`)

// Errors maps a field's JSON name to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the lotto tags registered:
// nospecial, password, phone and pinkey.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "nospecial", func(fl validator.FieldLevel) bool {
		return NoSpecial(fl.Field().String())
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "pinkey", func(fl validator.FieldLevel) bool {
		return PinKey(fl.Field().String())
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

// Struct validates s. Field failures come back as Errors; anything else
// (for example s not being a struct) is returned as is.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Must be a valid email address."
	case "nospecial":
		if c, ok := firstForbidden(fe.Value()); ok {
			return fmt.Sprintf("Character %c is not allowed.", c)
		}
		return "Contains a character that is not allowed."
	case "password":
		return fmt.Sprintf("Password must be between %d and %d characters in length and contain at least 1 digit, 1 uppercase letter, 1 lowercase letter and 1 special character.", PasswordMinLen, PasswordMaxLen)
	case "eqfield":
		return "Passwords must be equal to one another."
	case "phone":
		return "Phone number must be of the form XXXX-XXX-XXXX."
	case "pinkey":
		return fmt.Sprintf("PIN key must be exactly %d base32 characters.", PinKeyLen)
	case "len":
		return fmt.Sprintf("Must be %s characters in length.", fe.Param())
	case "oneof":
		return "Must be one of: " + fe.Param() + "."
	case "min", "max", "gte", "lte":
		return fmt.Sprintf("Must satisfy %s=%s.", fe.Tag(), fe.Param())
	default:
		return "Invalid value."
	}
}

func firstForbidden(v any) (rune, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	i := strings.IndexAny(s, ForbiddenChars)
	if i < 0 {
		return 0, false
	}
	return []rune(s[i:])[0], true
}

// NoSpecial reports whether s contains none of ForbiddenChars.
func NoSpecial(s string) bool {
	return !strings.ContainsAny(s, ForbiddenChars)
}

// StrongPassword requires 6 to 12 characters with at least one digit, one
// upper-case letter, one lower-case letter and one non-word character.
func StrongPassword(s string) bool {
	n := len([]rune(s))
	if n < PasswordMinLen || n > PasswordMaxLen {
		return false
	}

	var digit, upper, lower, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r):
			symbol = true
		}
	}
	return digit && upper && lower && symbol
}

// PinKey accepts a 32 character base32 TOTP secret.
func PinKey(s string) bool {
	if len(s) != PinKeyLen || !NoSpecial(s) {
		return false
	}
	_, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(s))
	return err == nil
}
