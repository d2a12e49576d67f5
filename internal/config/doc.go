// Package config provides the calculator's settings.
//
// # Architecture
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYCALC_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← keycalc.toml / keycalc.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each layer is a nested map; the merged map is read through typed getters
// and snapshotted into a Settings value.
//
// # Sub-packages
//
//   - loader: config file (TOML, YAML) and environment variable loading
//   - watcher: live reload of the config file
//
// # Usage
//
//	cfg := config.New(config.WithPath("keycalc.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	settings := cfg.Settings()
//
//	cfg.OnReload(func(s config.Settings) { apply(s) })
//	_ = cfg.Watch()
//	defer cfg.Close()
package config
