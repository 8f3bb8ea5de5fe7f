package utils

import (
	"errors"
	"strconv"
)

// StringToUint64 parses a URL id parameter, returning 0 when it is not a number.
func StringToUint64(str string) uint64 {
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0
	}
	return val
}

// IntOrDefault parses a positive integer query value, falling back to def.
func IntOrDefault(str string, def int) int {
	val, err := strconv.Atoi(str)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

var ErrInvalidID = errors.New("invalid id")

// OptionalID parses an optional id filter. An empty value yields 0; any other
// value must be a positive integer.
func OptionalID(str string) (uint64, error) {
	if str == "" {
		return 0, nil
	}
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil || val == 0 {
		return 0, ErrInvalidID
	}
	return val, nil
}
