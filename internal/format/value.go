package format

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// FormatValue renders a module call result the way an interactive host
// prints it: integers in decimal and sequences as "[a, b, c]".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case int:
		return strconv.Itoa(x)
	case *big.Int:
		return x.String()
	case string:
		return x
	case []uint64:
		parts := make([]string, len(x))
		for i, term := range x {
			parts[i] = strconv.FormatUint(term, 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "<unprintable>"
		}
		return string(b)
	}
}

// JSONValue converts a call result into a value that encodes to JSON without
// losing precision: exact sequences are emitted as JSON numbers rather than
// strings.
func JSONValue(v any) any {
	if terms, ok := v.([]string); ok {
		nums := make([]json.Number, len(terms))
		for i, t := range terms {
			nums[i] = json.Number(t)
		}
		return nums
	}
	return v
}

// ParseArg converts a command-line token into a call argument. Decimal
// integers become int64 (or *big.Int when they do not fit), other numeric
// literals become float64, and anything else is passed through as a string
// so the module reports the type mismatch.
func ParseArg(token string) any {
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i
	}
	if b, ok := new(big.Int).SetString(token, 10); ok {
		return b
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f
	}
	switch token {
	case "None", "nil", "null":
		return nil
	}
	return token
}

// ParseArgs applies ParseArg to every token.
func ParseArgs(tokens []string) []any {
	args := make([]any, len(tokens))
	for i, t := range tokens {
		args[i] = ParseArg(t)
	}
	return args
}
