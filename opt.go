package crop

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

/*
Optional value. Criteria use it instead of nil pointers, so that "not set" is
always explicit and the zero value of a criterion constrains nothing.

Decoding from JSON: `null` leaves the value unset, anything else is decoded
into `.Val` and marks it as set. Decoding from text (URL queries, form data):
empty input leaves the value unset; strings are taken verbatim; `time.Time`
accepts RFC3339 or a plain date such as "2020-01-31"; other types that
implement `encoding.TextUnmarshaler` use it; everything else is parsed as JSON,
which covers numbers and booleans.
*/
type Opt[T any] struct {
	Val T
	Ok  bool
}

// Shortcut for a set `Opt`.
func Some[T any](val T) Opt[T] { return Opt[T]{Val: val, Ok: true} }

func (self Opt[T]) Get() (T, bool) { return self.Val, self.Ok }

func (self Opt[T]) IsNull() bool { return !self.Ok }

func (self *Opt[T]) Clear() { *self = Opt[T]{} }

func (self Opt[T]) String() string {
	if !self.Ok {
		return `null`
	}
	return fmt.Sprint(self.Val)
}

func (self Opt[T]) MarshalJSON() ([]byte, error) {
	if !self.Ok {
		return []byte(`null`), nil
	}
	return json.Marshal(self.Val)
}

func (self *Opt[T]) UnmarshalJSON(input []byte) error {
	if isJsonNull(input) {
		self.Clear()
		return nil
	}

	var val T
	err := json.Unmarshal(input, &val)
	if err != nil {
		return err
	}
	*self = Some(val)
	return nil
}

func (self *Opt[T]) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		self.Clear()
		return nil
	}

	var val T
	err := decodeText(input, &val)
	if err != nil {
		return fmt.Errorf(`[crop] failed to decode %q into %T: %w`, input, val, err)
	}
	*self = Some(val)
	return nil
}

func decodeText(input []byte, out any) error {
	switch out := out.(type) {
	case *string:
		*out = string(input)
		return nil
	case *time.Time:
		return decodeTime(input, out)
	case encoding.TextUnmarshaler:
		return out.UnmarshalText(input)
	}

	rval := reflect.ValueOf(out).Elem()
	if rval.Kind() == reflect.String {
		rval.SetString(string(input))
		return nil
	}
	return json.Unmarshal(input, out)
}

func decodeTime(input []byte, out *time.Time) error {
	val, err := time.Parse(time.RFC3339, string(input))
	if err == nil {
		*out = val
		return nil
	}

	val, err = time.Parse(time.DateOnly, string(input))
	if err != nil {
		return err
	}
	*out = val
	return nil
}
