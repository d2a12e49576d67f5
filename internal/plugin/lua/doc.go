// Package lua runs user-defined calculator functions written in Lua.
//
// Scripts in the plugin directory are executed once at start-up. A script
// adds buttons by calling keycalc.register:
//
//	keycalc.register("½", function(text, value)
//	    if value == nil then
//	        return nil, "not a number"
//	    end
//	    return value / 2
//	end)
//
// The function receives the display text and, when the text is a single
// number, its value. It returns the new display text as a string or a
// number, or nil plus a message to signal an invalid operation.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring and require are removed, and print goes to
// the application log. Every call runs under a time limit.
package lua
