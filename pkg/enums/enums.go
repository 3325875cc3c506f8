// Package enums holds the closed string sets persisted or exchanged by the API.
package enums

import "fmt"

func contains[T ~string](set []T, value T) bool {
	for _, candidate := range set {
		if candidate == value {
			return true
		}
	}
	return false
}

func parse[T ~string](set []T, value, label string) (T, error) {
	for _, candidate := range set {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", label, value)
}

func toStrings[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, v := range set {
		out[i] = string(v)
	}
	return out
}
