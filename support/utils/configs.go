package utils

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
)

// LogConfig logs out the config file
func LogConfig(cfg fmt.Stringer) {
	log.Println("configs:")
	for _, line := range strings.Split(strings.TrimSuffix(cfg.String(), "\n"), "\n") {
		log.Printf("     %s", line)
	}
}

func displayName(field reflect.StructField) string {
	for _, tag := range []string{"toml", "yaml"} {
		name := strings.Split(field.Tag.Get(tag), ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// StructString is a helper method that serializes configs; the transform keys are always flattened,
// i.e specify the key meant to be on an inner object at a top level key on the transform map
func StructString(s interface{}, indentLevel uint8, transforms map[string]func(interface{}) interface{}) string {
	var buf bytes.Buffer
	t := reflect.TypeOf(s)
	v := reflect.ValueOf(s)
	for i := 0; i < t.NumField(); i++ {
		fieldDisplayName := displayName(t.Field(i))

		transformFn := passthrough
		if fn, ok := transforms[fieldDisplayName]; ok {
			transformFn = fn
		}

		currentField := v.Field(i)
		if !currentField.CanInterface() {
			continue
		}
		value := currentField.Interface()
		kind := currentField.Kind()
		if kind == reflect.Ptr {
			if currentField.IsNil() {
				value = nil
			} else {
				derefField := reflect.Indirect(currentField)
				value = derefField.Interface()
				kind = derefField.Kind()
			}
		}

		for indentIdx := 0; indentIdx < int(indentLevel); indentIdx++ {
			buf.WriteString("    ")
		}
		_, isStringer := value.(fmt.Stringer)
		if kind == reflect.Struct && !isStringer {
			subString := StructString(value, indentLevel+1, transforms)
			buf.WriteString(fmt.Sprintf("%s:\n%s", fieldDisplayName, subString))
		} else {
			buf.WriteString(fmt.Sprintf("%s: %+v\n", fieldDisplayName, transformFn(value)))
		}
	}
	return buf.String()
}

func passthrough(i interface{}) interface{} {
	return i
}

// Hide masks a secret value, empty values stay empty so missing secrets are still visible
func Hide(i interface{}) interface{} {
	if s, ok := i.(string); ok && s == "" {
		return ""
	}
	return "<hidden>"
}
