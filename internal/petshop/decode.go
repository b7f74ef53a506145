package petshop

import (
	"encoding"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/apulbere/crop"
	"github.com/mitchellh/mapstructure"
)

// Query is a decoded request to the pet endpoints.
type Query struct {
	Search PetSearch  `mapstructure:",squash"`
	Order  crop.Order `mapstructure:"order"`
	Page   crop.Page  `mapstructure:",squash"`
}

// BadRequestError describes query parameters that can't be decoded.
type BadRequestError struct{ Err error }

func (self BadRequestError) Error() string { return `bad request: ` + self.Err.Error() }
func (self BadRequestError) Unwrap() error { return self.Err }

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// DecodeQuery decodes URL parameters such as:
//
//	nickname.like=Bo&price.btw=10,20&type.in=dog,cat&order=-price,name&size=10
//
// Dots separate a field from its operator. List operators take
// comma-separated values. Unknown parameters are rejected.
func DecodeQuery(values url.Values) (Query, error) {
	var out Query

	input, err := nestValues(values)
	if err != nil {
		return out, BadRequestError{err}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			splitListHookFunc(),
			mapstructure.StringToTimeHookFunc(time.DateOnly),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}

	if err := dec.Decode(input); err != nil {
		return out, BadRequestError{err}
	}
	return out, nil
}

// nestValues turns "price.btw=10,20" into {"price": {"btw": "10,20"}}.
// Repeated parameters are joined with commas.
func nestValues(values url.Values) (map[string]any, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := map[string]any{}
	for _, key := range keys {
		val := strings.Join(values[key], `,`)
		path := strings.Split(key, `.`)

		node := out
		for i, name := range path {
			if name == `` {
				return nil, fmt.Errorf(`invalid parameter %q`, key)
			}

			if i == len(path)-1 {
				if _, ok := node[name]; ok {
					return nil, fmt.Errorf(`conflicting parameter %q`, key)
				}
				node[name] = val
				break
			}

			switch next := node[name].(type) {
			case nil:
				child := map[string]any{}
				node[name] = child
				node = child
			case map[string]any:
				node = next
			default:
				return nil, fmt.Errorf(`conflicting parameter %q`, key)
			}
		}
	}
	return out, nil
}

// splitListHookFunc splits comma-separated strings decoded into slices.
// Slice types that decode themselves from text, such as crop.Order, are
// left to the text unmarshaler hook.
func splitListHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
			return data, nil
		}
		if reflect.PointerTo(to).Implements(textUnmarshalerType) {
			return data, nil
		}

		str, ok := data.(string)
		if !ok {
			return nil, errors.New(`expected a string`)
		}
		if str == `` {
			return []string{}, nil
		}
		return strings.Split(str, `,`), nil
	}
}
