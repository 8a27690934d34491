// Package filter builds the minimal parameter sets sent with asset requests.
//
// A filter object is a mapping of named optional values stripped of the absent
// ones, absent being exactly nil (untyped nil or a nil pointer, map or slice).
// Values like false, 0 and "" are legitimate filter values and are preserved.
package filter

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	ErrFilter = errors.New("filter error")

	// sort orders accepted by the backend
	orders = []string{"ASC", "DESC"}
)

// Clean returns a new map holding the entries of in whose value is not absent.
//
// Non-nil pointers are dereferenced, the input map is never modified.
func Clean(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))

	for key, value := range in {
		v, ok := present(value)
		if !ok {
			continue
		}

		out[key] = v
	}

	return out
}

func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, false
		}

		return present(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	}

	return value, true
}

// FromStruct flattens a filter struct into a map keyed by the field mapstructure tags
// and returns it with the absent values removed.
func FromStruct(v any) (map[string]any, error) {
	out := map[string]any{}

	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, errors.Wrap(ErrFilter, err.Error())
	}

	return Clean(out), nil
}

// Values renders a filter object as query string values.
func Values(params map[string]any) url.Values {
	values := url.Values{}

	for key, value := range Clean(params) {
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				values.Add(key, format(rv.Index(i).Interface()))
			}

			continue
		}

		values.Set(key, format(value))
	}

	return values
}

func format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Offset converts a 1-indexed page into the 0-indexed offset transmitted to the backend.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}

	return (page - 1) * limit
}

// Paginate replaces the page entry in params with the offset and limit entries.
//
// Pagination is only set when either of page or limit was given.
func Paginate(params map[string]any, defaultLimit int) {
	page, hasPage := params["page"].(int)
	limit, hasLimit := params["limit"].(int)

	delete(params, "page")

	if !hasPage && !hasLimit {
		return
	}

	if limit <= 0 {
		limit = defaultLimit
	}

	params["limit"] = limit
	params["offset"] = Offset(page, limit)
}

// ValidateOrder returns an error when the given sort order is not one the backend accepts.
func ValidateOrder(order *string) error {
	if order == nil {
		return nil
	}

	if !slices.Contains(orders, strings.ToUpper(*order)) {
		return errors.Wrap(ErrFilter, "invalid sort order: "+*order)
	}

	return nil
}
