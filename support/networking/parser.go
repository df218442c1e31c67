package networking

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/model"
)

// PrefixFieldNotFound is what is returned in the error when we cannot find a field in the map
const PrefixFieldNotFound = "could not find field in map"

func checkKeyPresent(m map[string]interface{}, key string, methodAPI string) (interface{}, error) {
	v, ok := m[key]
	if !ok {
		return nil, api.MakeErrParsef(methodAPI, "%s: %s", PrefixFieldNotFound, key)
	}

	return v, nil
}

func makeParseError(field string, dataType string, methodAPI string, value interface{}) error {
	return api.MakeErrParsef(methodAPI, "could not parse the field '%s' as a %s: value=%v, type=%s", field, dataType, value, reflect.TypeOf(value))
}

// HasField returns true if the key is present and not null
func HasField(m map[string]interface{}, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// ParseString helps to parse a string value out of the map
func ParseString(m map[string]interface{}, key string, methodAPI string) (string, error) {
	v, e := checkKeyPresent(m, key, methodAPI)
	if e != nil {
		return "", e
	}

	s, ok := v.(string)
	if !ok {
		return "", makeParseError(key, "string", methodAPI, v)
	}

	return s, nil
}

// ParseBool helps to parse a bool value out of the map
func ParseBool(m map[string]interface{}, key string, methodAPI string) (bool, error) {
	v, e := checkKeyPresent(m, key, methodAPI)
	if e != nil {
		return false, e
	}

	b, ok := v.(bool)
	if !ok {
		return false, makeParseError(key, "bool", methodAPI, v)
	}

	return b, nil
}

// ParseMap helps to parse a nested object out of the map
func ParseMap(m map[string]interface{}, key string, methodAPI string) (map[string]interface{}, error) {
	v, e := checkKeyPresent(m, key, methodAPI)
	if e != nil {
		return nil, e
	}

	nested, ok := v.(map[string]interface{})
	if !ok {
		return nil, makeParseError(key, "map", methodAPI, v)
	}

	return nested, nil
}

// ParseSlice helps to parse a list out of the map
func ParseSlice(m map[string]interface{}, key string, methodAPI string) ([]interface{}, error) {
	v, e := checkKeyPresent(m, key, methodAPI)
	if e != nil {
		return nil, e
	}

	list, ok := v.([]interface{})
	if !ok {
		return nil, makeParseError(key, "list", methodAPI, v)
	}

	return list, nil
}

// ParseDecimal helps to parse a number value out of the map, exchanges send numbers as strings or floats
func ParseDecimal(m map[string]interface{}, key string, methodAPI string) (decimal.Decimal, error) {
	v, e := checkKeyPresent(m, key, methodAPI)
	if e != nil {
		return decimal.Zero, e
	}

	d, e := ValueAsDecimal(v)
	if e != nil {
		return decimal.Zero, makeParseError(key, "number", methodAPI, v)
	}
	return d, nil
}

// ParseMoney parses a number value out of the map into Money of the given currency
func ParseMoney(m map[string]interface{}, key string, currency string, methodAPI string) (*model.Money, error) {
	d, e := ParseDecimal(m, key, methodAPI)
	if e != nil {
		return nil, e
	}
	return model.MakeMoney(d, currency), nil
}

// ParseOptionalMoney is like ParseMoney but returns nil when the field is absent
func ParseOptionalMoney(m map[string]interface{}, key string, currency string, methodAPI string) (*model.Money, error) {
	if !HasField(m, key) {
		return nil, nil
	}
	return ParseMoney(m, key, currency, methodAPI)
}

// ValueAsDecimal converts a single JSON value to a decimal
func ValueAsDecimal(v interface{}) (decimal.Decimal, error) {
	switch t := v.(type) {
	case string:
		return decimal.NewFromString(t)
	case float64:
		return decimal.NewFromFloat(t), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %v (%s) to a decimal", v, reflect.TypeOf(v))
	}
}

// ListElementAsDecimal parses the element at index i of a JSON list
func ListElementAsDecimal(list []interface{}, i int, methodAPI string) (decimal.Decimal, error) {
	if i >= len(list) {
		return decimal.Zero, api.MakeErrParsef(methodAPI, "list of length %d has no element at index %d", len(list), i)
	}
	d, e := ValueAsDecimal(list[i])
	if e != nil {
		return decimal.Zero, api.MakeErrParse(methodAPI, e.Error())
	}
	return d, nil
}
