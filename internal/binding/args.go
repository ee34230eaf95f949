package binding

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	apperrors "github.com/agbru/pydemo/internal/errors"
)

// Int64Arg converts args[i] to an int64.
//
// Accepted host values are Go integer kinds, floats holding an integral value,
// json.Number and *big.Int. Booleans, strings, nil and fractional numbers are
// a TypeError; integers outside the int64 range are an OverflowError.
func Int64Arg(function string, args []any, i int, param string) (int64, error) {
	if i >= len(args) {
		return 0, apperrors.NewInvocationError(apperrors.KindArgument, function,
			"missing required argument %q (pos %d)", param, i+1)
	}

	switch v := args[i].(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return uintToInt64(function, param, uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return uintToInt64(function, param, v)
	case float32:
		return floatToInt64(function, param, float64(v))
	case float64:
		return floatToInt64(function, param, v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		if b, ok := new(big.Int).SetString(string(v), 10); ok {
			return bigToInt64(function, param, b)
		}
		f, err := v.Float64()
		switch {
		case err == nil:
			return floatToInt64(function, param, f)
		case math.IsInf(f, 0):
			// Out of float64 range, far outside int64.
			return 0, overflowError(function, param)
		}
		return 0, typeError(function, param, args[i])
	case *big.Int:
		if v == nil {
			return 0, typeError(function, param, nil)
		}
		return bigToInt64(function, param, v)
	default:
		return 0, typeError(function, param, v)
	}
}

// CountArg converts args[i] to a non-negative count no larger than limit.
// A limit <= 0 disables the upper bound. A negative count does not fit the
// unsigned length type and is an OverflowError; exceeding limit is a
// ValueError.
func CountArg(function string, args []any, i int, param string, limit int) (int, error) {
	n, err := Int64Arg(function, args, i, param)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, apperrors.NewInvocationError(apperrors.KindOverflow, function,
			"argument %q must be non-negative, got %d", param, n)
	}
	if limit > 0 && n > int64(limit) {
		return 0, apperrors.NewInvocationError(apperrors.KindValue, function,
			"argument %q must be at most %d, got %d", param, limit, n)
	}
	if n > math.MaxInt {
		return 0, overflowError(function, param)
	}
	return int(n), nil
}

func uintToInt64(function, param string, v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, overflowError(function, param)
	}
	return int64(v), nil
}

func floatToInt64(function, param string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, typeError(function, param, f)
	}
	// 2^63 is exactly representable; every float below it converts safely.
	if f < -(1<<63) || f >= 1<<63 {
		return 0, overflowError(function, param)
	}
	return int64(f), nil
}

func bigToInt64(function, param string, b *big.Int) (int64, error) {
	if !b.IsInt64() {
		return 0, overflowError(function, param)
	}
	return b.Int64(), nil
}

func typeError(function, param string, v any) error {
	return apperrors.NewInvocationError(apperrors.KindType, function,
		"argument %q must be an integer, got %s", param, TypeName(v))
}

func overflowError(function, param string) error {
	return apperrors.NewInvocationError(apperrors.KindOverflow, function,
		"argument %q does not fit in a signed 64-bit integer", param)
}

// HostTyped is implemented by host values that know their own type name,
// such as a Lua table or function handed to the module.
type HostTyped interface {
	HostTypeName() string
}

// TypeName returns a short, host-neutral name for the dynamic type of v.
func TypeName(v any) string {
	switch x := v.(type) {
	case HostTyped:
		return x.HostTypeName()
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float32, float64:
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return "integer"
	case json.Number:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", x)
	}
}
