package req

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"flea_market/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

func init() { //nolint:gochecknoinits
	// В описаниях ошибок поля называются так же, как в JSON.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
}

// Read декодирует JSON тело в dest и проверяет теги validate.
func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		description := "Invalid JSON"
		if errors.Is(err, io.EOF) {
			description = "Request body is required"
		}

		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Decode: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(description),
		)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(describe(err)),
		)
	}

	return nil
}

// describe превращает ошибки валидатора в "limit: max=100; items: required".
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}

		parts = append(parts, fieldPath(fe.Namespace())+": "+rule)
	}

	return strings.Join(parts, "; ")
}

// fieldPath отрезает имя корневой структуры: "CreateOfferRequest.items[0]" -> "items[0]".
func fieldPath(namespace string) string {
	_, path, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}

	return path
}
