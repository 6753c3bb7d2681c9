package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// requestValidator plugs validator/v10 into echo.Context.Validate.
type requestValidator struct {
	v  *validator.Validate
	tr ut.Translator
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	tr, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, tr)

	// Report query parameter names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{v: v, tr: tr}
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}
