/*
Package config reads fillkit settings from YAML or JSON.

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type, so callers never
write type assertions against decoded documents.

# Keys

	variables:        # pattern variables, nested maps allowed
	  Sep: ","
	  Date:
	    Y: \d{4}
	nests:            # nest templates for <<Name>>
	  Full: "%(first)s %(last)s"
	max_depth: 32
	debug: [L, K]     # or true for every shape
	match_timeout: 250ms
	source_store: $HOME/.cache/fillkit/patterns.db   # or :memory:

fillkit.Load and fillkit.FromConfig turn these into engines.

# Usage

	cfg, err := config.FromFile("fillkit.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	depth := cfg.Int(config.KeyMaxDepth, 64)
	nests := cfg.StringMap(config.KeyNests, nil)

FromFile expands environment variables in source_store. Duration accepts a
time.ParseDuration string or a number of seconds. FromJSON decodes whole
numbers as int; Int also accepts whole float64 values.

Config is safe for concurrent reads. The underlying map is not modified
after creation.
*/
package config
