// Package validate wraps go-playground/validator with the player rules shared
// by the reference service and the response checks done by the smoke client.
package validate

import (
	"errors"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/hongminglow/auth-smoke/internal/models/dto"
)

var (
	rePersonName = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}\s]+$`)
	reNick       = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	rePasswordUpper   = regexp.MustCompile(`[A-Z]`)
	rePasswordLower   = regexp.MustCompile(`[a-z]`)
	rePasswordDigit   = regexp.MustCompile(`[0-9]`)
	rePasswordSpecial = regexp.MustCompile(`[\W_]`)
)

// ErrTranslatorNotFound indicates the english translator could not be built.
var ErrTranslatorNotFound = errors.New("translator not found")

// ValidationError lists every field that failed, keyed by its JSON name.
type ValidationError []dto.FieldDetail

// Error implements the error interface.
func (ve ValidationError) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, d := range ve {
		parts = append(parts, d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator validates request and response structs.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New constructs a Validator with english messages and the custom player rules.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}
	if err := registerCustom(v, trans); err != nil {
		return nil, err
	}

	return &Validator{validate: v, translator: trans}, nil
}

// MustNew is New for package-level initialisation.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct returns a ValidationError when data breaks any rule.
func (v *Validator) Struct(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, dto.FieldDetail{
			Field:   fieldPath(fe.Namespace()),
			Message: fe.Translate(v.translator),
		})
	}
	return out
}

func registerCustom(v *validator.Validate, trans ut.Translator) error {
	rules := []struct {
		tag     string
		message string
		fn      func(string) bool
	}{
		{"personname", "{0} can contain only letters and spaces", rePersonName.MatchString},
		{"nick", "{0} can contain only letters, numbers and underscores", reNick.MatchString},
		{"strongpassword", "{0} must have 8+ characters with upper, lower, digit and special", strongPassword},
	}

	for _, r := range rules {
		match := r.fn
		if err := v.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && match(s)
		}); err != nil {
			return err
		}

		message := r.message
		if err := v.RegisterTranslation(r.tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(r.tag, message, false)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("translate validation error", "tag", fe.Tag(), "err", err)
					return fe.Error()
				}
				return t
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func strongPassword(p string) bool {
	return len(p) >= 8 &&
		rePasswordUpper.MatchString(p) &&
		rePasswordLower.MatchString(p) &&
		rePasswordDigit.MatchString(p) &&
		rePasswordSpecial.MatchString(p)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// fieldPath drops the top-level struct name: "RegisterRequest.nick" -> "nick".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}
