package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	decimalsTag  = "decimals"
	decimalsText = "this field takes at most 2 decimal places"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// Validator bundles the struct validator with its english translator.
type Validator struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewValidator instantiates a Validator with the global custom validations registered.
func NewValidator() *Validator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	v := &Validator{Validate: validator.New(), Translator: translator}
	InitValidators(v)
	return v
}

// InitValidators registers the default translations and global custom validators.
func InitValidators(v *Validator) {
	_ = en_translations.RegisterDefaultTranslations(v.Validate, v.Translator)

	// Use JSON tag names for errors instead of Go struct names.
	v.Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = v.Validate.RegisterValidation(notBlankTag, notBlankValidation)
	v.RegisterCustomTranslation(notBlankTag, notBlankText)
	_ = v.Validate.RegisterValidation(decimalsTag, decimalsValidation)
	v.RegisterCustomTranslation(decimalsTag, decimalsText)

	v.RegisterCustomTranslation(requiredTag, requiredText, true)
	v.RegisterCustomTranslation(requiredWithTag, requiredText, true)
}

// Struct validates a struct's exposed fields.
func (v *Validator) Struct(s interface{}) error {
	return v.Validate.Struct(s)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func (v *Validator) RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = v.Validate.RegisterTranslation(
		tag, v.Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldErrors translates validator.ValidationErrors into FieldErrors.
func (v *Validator) FieldErrors(errs validator.ValidationErrors) []FieldError {
	flds := make([]FieldError, 0, len(errs))
	for _, vErr := range errs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(v.Translator)})
	}
	return flds
}

// StructFields validates s and returns its failing fields, each prefixed with prefix when set.
func (v *Validator) StructFields(s interface{}, prefix string) []FieldError {
	err := v.Validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []FieldError{{Field: prefix, Error: err.Error()}}
	}
	flds := v.FieldErrors(vErrs)
	if prefix != "" {
		for i := range flds {
			flds[i].Field = prefix + "." + flds[i].Field
		}
	}
	return flds
}

// Check validates s and returns a ValidationError listing every failing field. kind, if set,
// is the error kind the ValidationError reports itself as.
func (v *Validator) Check(s interface{}, kind error) error {
	flds := v.StructFields(s, "")
	if len(flds) == 0 {
		return nil
	}
	var err error
	if kind != nil {
		err = NewError(kind, "invalid input")
	}
	return NewValidationError(err, flds...)
}

// Custom Global Validators

// notBlankValidation rejects whitespace only strings.
func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// decimalsValidation rejects floats with more decimal places than are stored.
func decimalsValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return HasDecimals(fl.Field().Float(), StoredDecimals)
	}
	return true
}
