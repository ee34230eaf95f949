// Package luahost embeds a Lua interpreter as the host runtime of a binding
// module. After Open, Lua code can load the module with
//
//	local demo = require("rust_python_demo")
//	print(demo.add(2, 3), #demo.fibonacci(10))
//
// Lua 5.2 numbers are IEEE-754 doubles, so integer results whose magnitude
// exceeds 2^53 cannot be represented exactly. Such values are handed to Lua
// as decimal strings instead of being silently rounded.
package luahost
