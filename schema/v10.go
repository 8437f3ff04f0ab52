package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

// v10 is the shared rule engine behind every leaf value schema. It is built
// once at package load and is safe for concurrent use.
var v10 = newRuntime()

type runtime struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRuntime() *runtime {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	translator := lo.Must(uni.GetTranslator("en"))

	lo.Must0(enTranslations.RegisterDefaultTranslations(validate, translator))

	return &runtime{validate: validate, translator: translator}
}

// check evaluates a rule tag against an already-coerced value and returns one
// issue per failing rule. Messages come from the registered translations with
// the leading field placeholder stripped, since single values carry no name.
func (rt *runtime) check(ctx context.Context, value any, rules string) Issues {
	if rules == "" {
		return nil
	}

	err := rt.validate.VarCtx(ctx, value, rules)
	if err == nil {
		return nil
	}

	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		return Issues{{Code: "invalid_value", Message: err.Error()}}
	}

	is := make(Issues, 0, len(ferrs))
	for _, fe := range ferrs {
		is = append(is, Issue{
			Code:    fe.Tag(),
			Message: strings.TrimSpace(fe.Translate(rt.translator)),
		})
	}
	return is
}

// RegisterRule adds a custom rule tag with a fixed translated message, making
// it available to every leaf value schema in the process.
func RegisterRule(tag string, fn validator.Func, message string) error {
	if err := v10.validate.RegisterValidation(tag, fn); err != nil {
		return err
	}

	return v10.validate.RegisterTranslation(tag, v10.translator,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				return message
			}
			return t
		},
	)
}
