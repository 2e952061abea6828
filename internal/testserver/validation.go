package testserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// detailItem is one entry of a FastAPI 422 body.
type detailItem struct {
	Type  string         `json:"type"`
	Loc   []any          `json:"loc"`
	Msg   string         `json:"msg"`
	Input any            `json:"input"`
	Ctx   map[string]any `json:"ctx,omitempty"`
	URL   string         `json:"url,omitempty"`
}

const pydanticErrors = "https://errors.pydantic.dev/2.9/v/"

func newDetail(typ, msg string, input any, loc ...any) detailItem {
	return detailItem{Type: typ, Loc: loc, Msg: msg, Input: input, URL: pydanticErrors + typ}
}

// unprocessable writes a 422 with the given entries.
func unprocessable(c *gin.Context, items ...detailItem) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": items})
}

// bindFailed converts a gin binding error into a 422 answer. source is the
// first element of each loc ("body", "query").
func bindFailed(c *gin.Context, source string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		items := make([]detailItem, 0, len(verrs))
		for _, fe := range verrs {
			items = append(items, fieldDetail(source, fe))
		}
		unprocessable(c, items...)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		unprocessable(c, newDetail(typeErr.Type.Kind().String()+"_type",
			fmt.Sprintf("Input should be a valid %s", typeErr.Type.Kind()),
			typeErr.Value, source, typeErr.Field))
		return
	}

	unprocessable(c, newDetail("json_invalid", "JSON decode error", err.Error(), source))
}

func fieldDetail(source string, fe validator.FieldError) detailItem {
	loc := []any{source, fe.Field()}
	switch fe.Tag() {
	case "required":
		return newDetail("missing", "Field required", nil, loc...)
	case "oneof":
		expected := enumeration(strings.Fields(fe.Param()))
		d := newDetail("enum", "Input should be "+expected, fe.Value(), loc...)
		d.Ctx = map[string]any{"expected": expected}
		return d
	case "gte":
		return newDetail("greater_than_equal", "Input should be greater than or equal to "+fe.Param(), fe.Value(), loc...)
	case "lte":
		return newDetail("less_than_equal", "Input should be less than or equal to "+fe.Param(), fe.Value(), loc...)
	case "max":
		return newDetail("string_too_long", "String should have at most "+fe.Param()+" characters", fe.Value(), loc...)
	default:
		return newDetail("value_error", fmt.Sprintf("Value error, failed on '%s'", fe.Tag()), fe.Value(), loc...)
	}
}

// enumeration renders values the way pydantic lists enum members:
// 'a' or 'b', 'a', 'b' or 'c'.
func enumeration(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

// intParam parses a path parameter, answering 422 when it is not an integer.
func intParam(c *gin.Context, name, field string) (int, bool) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		unprocessable(c, newDetail("int_parsing",
			"Input should be a valid integer, unable to parse string as an integer",
			raw, "path", field))
		return 0, false
	}
	return n, true
}
