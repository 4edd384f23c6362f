package service

import (
	"fmt"
	"math"
)

// StringArg returns positional arg i as a string.
func (c Call) StringArg(i int) (string, error) {
	if i >= len(c.Args) {
		return "", fmt.Errorf("%s: missing argument %d", c.Target, i)
	}
	s, ok := c.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s: argument %d is %T, want string", c.Target, i, c.Args[i])
	}
	return s, nil
}

// IntArg returns positional arg i as an int. JSON numbers arrive as
// float64; fractional or out of range values are rejected.
func (c Call) IntArg(i int) (int, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("%s: missing argument %d", c.Target, i)
	}
	switch v := c.Args[i].(type) {
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
			return 0, fmt.Errorf("%s: argument %d is %v, want integer", c.Target, i, v)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s: argument %d is %T, want number", c.Target, i, c.Args[i])
	}
}
