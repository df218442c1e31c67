package json

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// GJsonParserWrapper reads single values out of a JSON document by path
type GJsonParserWrapper struct{}

// NewJsonParserWrapper is a factory method
func NewJsonParserWrapper() *GJsonParserWrapper {
	return &GJsonParserWrapper{}
}

// GetRawJsonValue returns the raw JSON text at the path
func (j GJsonParserWrapper) GetRawJsonValue(json []byte, path string) (string, error) {
	value := gjson.GetBytes(json, path)

	if value.Raw == "" {
		return "", fmt.Errorf("json parser wrapper error: could not find json for path %s in %s", path, json)
	}

	return value.Raw, nil
}

// GetDecimal returns the number at the path, JSON strings holding numbers are accepted
func (j GJsonParserWrapper) GetDecimal(json []byte, path string) (decimal.Decimal, error) {
	value := gjson.GetBytes(json, path)
	if !value.Exists() {
		return decimal.Zero, fmt.Errorf("json parser wrapper error: could not find json for path %s in %s", path, json)
	}
	if value.Type != gjson.Number && value.Type != gjson.String {
		return decimal.Zero, fmt.Errorf("json parser wrapper error: value at path %s is not a number: %s", path, value.Raw)
	}

	d, e := decimal.NewFromString(value.String())
	if e != nil {
		return decimal.Zero, fmt.Errorf("json parser wrapper error: value at path %s is not a number: %s", path, e)
	}
	return d, nil
}

// GetBool returns false when the path does not exist
func (j GJsonParserWrapper) GetBool(json []byte, path string) bool {
	return gjson.GetBytes(json, path).Bool()
}
