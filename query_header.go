package postmark

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// queryParam is one key=value pair of query string.
type queryParam struct {
	key, value string
}

// orderedQuery keeps parameters in the order of struct fields, unlike
// url.Values which sorts them by key.
type orderedQuery []queryParam

func (q orderedQuery) Encode() string {
	var buf strings.Builder
	for i, p := range q {
		if i != 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(p.key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(p.value))
	}
	return buf.String()
}

func formatParam(fieldValue reflect.Value) (string, error) {
	for fieldValue.Kind() == reflect.Ptr || fieldValue.Kind() == reflect.Interface {
		if fieldValue.IsNil() {
			return "", nil
		}
		fieldValue = fieldValue.Elem()
	}
	fieldObj := fieldValue.Interface()
	if marshaler, ok := fieldObj.(encoding.TextMarshaler); ok {
		valueBytes, err := marshaler.MarshalText()
		if err != nil {
			return "", err
		}
		return string(valueBytes), nil
	}
	return fmt.Sprintf("%v", fieldObj), nil
}

// writeParams collects values of fields tagged `url` and `query`.
func writeParams(objPtr interface{}) (map[string]string, orderedQuery, error) {
	objType := reflect.TypeOf(objPtr).Elem()
	objValue := reflect.ValueOf(objPtr).Elem()
	param2value := make(map[string]string)
	var query orderedQuery
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)

		urlKey := field.Tag.Get("url")
		queryKey, omitempty := tagName(field.Tag.Get("query"))
		if urlKey == "" && queryKey == "" {
			continue
		}

		fieldValue := objValue.Field(i)
		if queryKey != "" && omitempty && fieldValue.IsZero() {
			continue
		}
		value, err := formatParam(fieldValue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal value for field %s: %w", field.Name, err)
		}

		if urlKey != "" {
			param2value[urlKey] = value
		} else {
			query = append(query, queryParam{key: queryKey, value: value})
		}
	}
	return param2value, query, nil
}

func parseParam(fieldValue reflect.Value, value string) error {
	if fieldValue.Kind() == reflect.Ptr {
		ptr := reflect.New(fieldValue.Type().Elem())
		if err := parseParam(ptr.Elem(), value); err != nil {
			return err
		}
		fieldValue.Set(ptr)
		return nil
	}
	if unmarshaler, ok := fieldValue.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return unmarshaler.UnmarshalText([]byte(value))
	}
	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		fieldValue.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetUint(n)
	default:
		return fmt.Errorf("unsupported parameter type %s", fieldValue.Type())
	}
	return nil
}

// parseParams is the reverse of writeParams, used on server side.
func parseParams(objPtr interface{}, param2value map[string]string, query url.Values) error {
	objType := reflect.TypeOf(objPtr).Elem()
	objValue := reflect.ValueOf(objPtr).Elem()
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)

		value := ""
		if urlKey := field.Tag.Get("url"); urlKey != "" {
			value = param2value[urlKey]
		} else if queryKey, _ := tagName(field.Tag.Get("query")); queryKey != "" {
			value = query.Get(queryKey)
		}
		if value == "" {
			continue
		}

		if err := parseParam(objValue.Field(i), value); err != nil {
			return fmt.Errorf("failed to parse value %q for field %s: %w", value, field.Name, err)
		}
	}
	return nil
}
