// Package validation envuelve go-playground/validator con mensajes en español
// y nombres de campo legibles (tag `label`, o el tag `json` si no hay label).
package validation

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

const (
	httpURLTag  = "httpurl"
	httpURLText = "{0} debe ser una URL http(s) válida"

	requiredTag  = "required"
	requiredText = "{0} es obligatorio"
)

// Validator valida structs y traduce los errores.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New construye el validador con traducciones al español y validaciones propias.
func New() *Validator {
	validate := validator.New()
	locale := es.New()
	translator, _ := ut.New(locale, locale).GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(httpURLTag, httpURLValidation)
	registerTranslation(validate, translator, httpURLTag, httpURLText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &Validator{validate: validate, translator: translator}
}

// Struct valida s y devuelve los mensajes traducidos (nil si es válido).
func (v *Validator) Struct(s interface{}) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Translate(v.translator))
	}
	return out
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// httpURLValidation acepta solo URLs absolutas con esquema http o https. Vacío pasa (usar required).
func httpURLValidation(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
