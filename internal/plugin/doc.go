// Package plugin loads user-defined calculator buttons from Lua scripts.
//
// Every *.lua file in the plugin directory runs once, in name order, inside
// a shared sandboxed state. Scripts call keycalc.register to bind a label
// to a Lua function; each binding becomes a handler.Command that the
// dispatcher can register like any built-in button.
//
//	host := plugin.NewHost(plugin.WithTimeout(250 * time.Millisecond))
//	defer host.Close()
//
//	scripts, err := plugin.NewLoader(dir).Discover()
//	...
//	host.LoadAll(ctx, scripts)
//	host.Commands().RegisterAll(d)
//
// A script that fails to load is reported in its ScriptInfo and does not
// stop the others. Functions registered before the failure stay bound.
package plugin
