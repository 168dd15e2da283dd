package config

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks a loaded configuration.
type Validator interface {
	Struct(s any) error
}

// translatedValidator 使用英文翻译输出校验错误
type translatedValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator creates a Validator reporting English messages.
func NewValidator() Validator {
	v := validator.New()
	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	return &translatedValidator{validate: v, trans: trans}
}

// Struct validates s and joins translated field errors with "; ".
func (v *translatedValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Translate(v.trans))
	}
	return &ValidationError{Fields: fieldErrors, message: strings.Join(messages, "; ")}
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields  validator.ValidationErrors
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}
