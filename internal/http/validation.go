package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupValidatorOnce sync.Once

// setupValidator usa los nombres JSON en los mensajes y rechaza campos desconocidos.
func setupValidator() {
	setupValidatorOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("iso8601", isISO8601)
	})
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

var iso8601Layouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func isISO8601(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, layout := range iso8601Layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// bindJSON decodifica y valida el body; si falla responde 400 con un mensaje por campo.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithStatus(c, http.StatusBadRequest, validationMessages(err))
		return false
	}
	return true
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return msgs
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type))}
	}
	if errors.Is(err, io.EOF) {
		return []string{"request body should not be empty"}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return []string{fmt.Sprintf("property %s should not exist", strings.Trim(field, `"`))}
	}
	return []string{"request body must be valid JSON"}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "email":
		return field + " must be an email"
	case "min":
		return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "iso8601":
		return field + " must be a valid ISO 8601 date string"
	default:
		return field + " is invalid"
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.Slice:
		return "array"
	default:
		return t.String()
	}
}
