package luahost

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shopify/go-lua"

	"github.com/agbru/pydemo/internal/binding"
)

// maxExactNumber is the largest integer magnitude a Lua number holds exactly.
const maxExactNumber = 1 << 53

// opaque stands in for Lua values that have no Go counterpart (tables,
// functions, userdata). The binding layer reports them by Lua type name.
type opaque string

func (o opaque) HostTypeName() string { return string(o) }

// Open makes m loadable through require(m.Name()) and also stores it in the
// global of the same name. ctx is consulted on every call so a long-lived
// state can follow the context of the code currently driving it.
func Open(l *lua.State, m *binding.Module, ctx func() context.Context) {
	names := m.Names()
	lua.Require(l, m.Name(), func(l *lua.State) int {
		l.CreateTable(0, len(names))
		for _, name := range names {
			name := name
			l.PushGoFunction(func(l *lua.State) int {
				return call(l, m, name, ctx())
			})
			l.SetField(-2, name)
		}
		return 1
	}, true)
	l.Pop(1)
}

func call(l *lua.State, m *binding.Module, name string, ctx context.Context) int {
	n := l.Top()
	args := make([]any, n)
	for i := 1; i <= n; i++ {
		args[i-1] = toGo(l, i)
	}

	result, err := m.Call(ctx, name, args...)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return 0
	}
	push(l, result)
	return 1
}

func toGo(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeNumber:
		f, _ := l.ToNumber(index)
		return f
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeNil, lua.TypeNone:
		return nil
	default:
		return opaque(lua.TypeNameOf(l, index))
	}
}

func push(l *lua.State, v any) {
	switch x := v.(type) {
	case nil:
		l.PushNil()
	case int64:
		pushInt64(l, x)
	case uint64:
		pushUint64(l, x)
	case string:
		l.PushString(x)
	case []uint64:
		l.CreateTable(len(x), 0)
		for i, term := range x {
			pushUint64(l, term)
			l.RawSetInt(-2, i+1)
		}
	case []string:
		l.CreateTable(len(x), 0)
		for i, s := range x {
			l.PushString(s)
			l.RawSetInt(-2, i+1)
		}
	default:
		l.PushString(fmt.Sprint(x))
	}
}

func pushInt64(l *lua.State, v int64) {
	if v >= -maxExactNumber && v <= maxExactNumber {
		l.PushNumber(float64(v))
		return
	}
	l.PushString(strconv.FormatInt(v, 10))
}

func pushUint64(l *lua.State, v uint64) {
	if v <= maxExactNumber {
		l.PushNumber(float64(v))
		return
	}
	l.PushString(strconv.FormatUint(v, 10))
}
