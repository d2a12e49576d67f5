package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals can load code from disk or strings and so escape review.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// installSandbox strips code-loading globals and redirects print.
func installSandbox(L *lua.LState, printf func(format string, args ...any)) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		if printf == nil {
			return 0
		}
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		printf("lua: %s", strings.Join(parts, "\t"))
		return 0
	}))
}
