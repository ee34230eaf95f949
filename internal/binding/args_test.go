package binding

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	apperrors "github.com/agbru/pydemo/internal/errors"
)

func TestInt64Arg(t *testing.T) {
	t.Parallel()
	huge, _ := new(big.Int).SetString("9223372036854775808", 10)

	tests := []struct {
		name     string
		value    any
		want     int64
		wantKind apperrors.InvocationKind
	}{
		{"int", 7, 7, ""},
		{"int8", int8(-8), -8, ""},
		{"int32", int32(32), 32, ""},
		{"int64 min", int64(math.MinInt64), math.MinInt64, ""},
		{"uint8", uint8(255), 255, ""},
		{"uint64 in range", uint64(math.MaxInt64), math.MaxInt64, ""},
		{"uint64 too large", uint64(math.MaxInt64) + 1, 0, apperrors.KindOverflow},
		{"integral float", 42.0, 42, ""},
		{"negative integral float", -3.0, -3, ""},
		{"fractional float", 1.5, 0, apperrors.KindType},
		{"NaN", math.NaN(), 0, apperrors.KindType},
		{"infinity", math.Inf(1), 0, apperrors.KindType},
		{"float beyond int64", 1e19, 0, apperrors.KindOverflow},
		{"json integer", json.Number("123"), 123, ""},
		{"json integral decimal", json.Number("5.0"), 5, ""},
		{"json huge integer", json.Number("99999999999999999999"), 0, apperrors.KindOverflow},
		{"json fraction", json.Number("0.25"), 0, apperrors.KindType},
		{"json exponent beyond float64", json.Number("1e400"), 0, apperrors.KindOverflow},
		{"json negative exponent beyond float64", json.Number("-1e400"), 0, apperrors.KindOverflow},
		{"json exponent beyond int64", json.Number("1e300"), 0, apperrors.KindOverflow},
		{"json underflow", json.Number("1e-400"), 0, apperrors.KindType},
		{"big int", big.NewInt(-11), -11, ""},
		{"big int too large", huge, 0, apperrors.KindOverflow},
		{"string", "12", 0, apperrors.KindType},
		{"bool", true, 0, apperrors.KindType},
		{"nil", nil, 0, apperrors.KindType},
		{"list", []any{1}, 0, apperrors.KindType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Int64Arg("f", []any{tt.value}, 0, "a")
			if tt.wantKind != "" {
				if KindOf(err) != tt.wantKind || err == nil {
					t.Fatalf("Int64Arg(%v) error = %v, want kind %s", tt.value, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Int64Arg(%v) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Int64Arg(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestInt64Arg_MissingArgument(t *testing.T) {
	t.Parallel()
	_, err := Int64Arg("add", []any{1}, 1, "b")
	if KindOf(err) != apperrors.KindArgument {
		t.Errorf("error = %v, want ArgumentError", err)
	}
}

func TestCountArg(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		value    any
		limit    int
		want     int
		wantKind apperrors.InvocationKind
	}{
		{"zero", 0, 10, 0, ""},
		{"at limit", 10, 10, 10, ""},
		{"unbounded", 1_000_000, 0, 1_000_000, ""},
		{"negative", -1, 10, 0, apperrors.KindOverflow},
		{"above limit", 11, 10, 0, apperrors.KindValue},
		{"wrong type", "3", 10, 0, apperrors.KindType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CountArg("fibonacci", []any{tt.value}, 0, "n", tt.limit)
			if tt.wantKind != "" {
				if err == nil || KindOf(err) != tt.wantKind {
					t.Fatalf("CountArg(%v) error = %v, want kind %s", tt.value, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("CountArg(%v) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("CountArg(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value any
		want  string
	}{
		{nil, "nil"},
		{true, "boolean"},
		{"s", "string"},
		{1.5, "float"},
		{int64(1), "integer"},
		{json.Number("1"), "number"},
		{[]any{}, "list"},
		{map[string]any{}, "table"},
		{struct{}{}, "struct {}"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.value); got != tt.want {
			t.Errorf("TypeName(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
