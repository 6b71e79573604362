package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var reSlug = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Password bounds. The upper bound is in bytes since bcrypt truncates there.
const (
	passwordMinRunes = 6
	passwordMaxBytes = 72
)

// ErrTranslatorNotFound is returned when the English translator cannot be created.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// V10 implements Validator with go-playground/validator.
//
// Custom tags: password (at least 6 characters, at most 72 bytes), slug (letters, digits, hyphen,
// underscore), phone (international number, see NormalizePhone).
type V10 struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewV10 builds a V10 with English messages.
func NewV10() (*V10, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	locale := en.New()
	trans, ok := ut.New(locale, locale).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	rules := []struct {
		tag string
		fn  validator.Func
		msg string
	}{
		{"password", validPassword, "{0} must be at least 6 characters and at most 72 bytes"},
		{"slug", matchString(reSlug), "{0} must contain only letters, numbers, hyphens and underscores"},
		{"phone", validPhone, "{0} must be a valid phone number"},
	}

	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, err
		}
		if err := registerMessage(v, trans, r.tag, r.msg); err != nil {
			return nil, err
		}
	}

	return &V10{validate: v, trans: trans}, nil
}

// Validate returns a ValidationError when data violates its tags.
func (v *V10) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(v.trans)
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(s)
	}
}

func validPassword(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && len(s) <= passwordMaxBytes && utf8.RuneCountInString(s) >= passwordMinRunes
}

func validPhone(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := NormalizePhone(s)
	return err == nil
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg string) error {
	return v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, msg, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}
