package handler

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// flexNumber holds a numeric body field that clients may send either as a
// JSON number or as a string such as "12.5". Anything else is kept verbatim
// so the validator can report it against the field instead of failing the
// whole bind.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = flexNumber(strings.TrimSpace(s))
		return nil
	}
	*n = flexNumber(b)
	return nil
}

// parse returns the value and whether it is a finite number.
func (n flexNumber) parse() (float64, bool) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (n flexNumber) Float() float64 {
	f, _ := n.parse()
	return f
}

func (n flexNumber) Int() int {
	return int(n.Float())
}

// numberValue lets numeric tags (gte, whole) see a parsed flexNumber as a
// float64. Unparseable input stays a string and fails "numeric".
func numberValue(v reflect.Value) interface{} {
	n := v.Interface().(flexNumber)
	if f, ok := n.parse(); ok {
		return f
	}
	return string(n)
}

// isWhole accepts integers and floats with no fractional part.
func isWhole(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	case reflect.Float32, reflect.Float64:
		return f.Float() == math.Trunc(f.Float())
	}
	return false
}

func floatPtr(n *flexNumber) *float64 {
	if n == nil {
		return nil
	}
	f := n.Float()
	return &f
}

func intPtr(n *flexNumber) *int {
	if n == nil {
		return nil
	}
	i := n.Int()
	return &i
}
