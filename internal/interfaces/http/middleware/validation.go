package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/erp/distribution/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once

// SetupValidator points gin's validator at wire names: the json tag, then
// the form tag for query structs. Safe to call more than once.
func SetupValidator() {
	validatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(wireName)
		}
	})
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return ""
}

// ValidationDetails turns a binding error into field-level details. Nested
// fields keep their path, e.g. "items[0].quantity". Anything that is not a
// validation failure (malformed JSON, wrong types) is reported on "body".
func ValidationDetails(err error) []dto.ValidationDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []dto.ValidationDetail{{Field: "body", Message: err.Error()}}
	}
	out := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = dto.ValidationDetail{Field: fieldPath(fe), Message: describeRule(fe)}
	}
	return out
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok && rest != "" {
		return rest
	}
	return fe.Field()
}

var ruleMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lt":       "Must be less than %s",
	"lte":      "Must be less than or equal to %s",
	"ne":       "Must not equal %s",
	"nefield":  "Must differ from %s",
	"dive":     "Invalid element",
}

// sizeRules count characters for strings, elements for slices and value otherwise
var sizeRules = map[string]string{
	"min": "at least",
	"max": "at most",
	"len": "exactly",
}

func describeRule(fe validator.FieldError) string {
	if bound, ok := sizeRules[fe.Tag()]; ok {
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Must be %s %s characters", bound, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("Must contain %s %s items", bound, fe.Param())
		default:
			return fmt.Sprintf("Must be %s %s", bound, fe.Param())
		}
	}
	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
