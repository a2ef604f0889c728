package helpers

import "strings"

func Ptr[T any](val T) *T {
	return &val
}

// NonBlank returns a pointer to the trimmed value, or nil when nothing is left.
// Optional filter fields use nil to mean "no constraint".
func NonBlank(val string) *string {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	return &val
}
