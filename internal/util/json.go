// Package util holds small serialization helpers.
package util

import (
	"github.com/bytedance/sonic"
)

// ToJSON converts a value to a compact JSON string.
func ToJSON(v any) (string, error) {
	bytes, err := sonic.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ToJSONPretty converts a value to an indented JSON string.
func ToJSONPretty(v any) (string, error) {
	bytes, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// FromJSONBytes decodes JSON into a new value of type T.
func FromJSONBytes[T any](data []byte) (T, error) {
	var v T
	err := sonic.Unmarshal(data, &v)
	return v, err
}
