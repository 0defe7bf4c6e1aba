package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is a mapping from flag name to value:
//
//	log-level: debug
//	width: 100
//	path:
//	  - ./widgets
//
// Nested mappings are joined with "-", so the following is equivalent to
// "log-level: debug":
//
//	log:
//	  level: debug
//
// Keys may use "_" in place of "-". Command-line flags override
// configuration values. A file that is empty or not a mapping configures
// nothing.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc any

	if err := yaml.NewDecoder(r, yaml.UseOrderedMap()).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := make(config)
	if ms, ok := doc.(yaml.MapSlice); ok {
		cfg.flatten("", ms)
	}

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML configuration.
type config map[string]any

func (c config) flatten(prefix string, ms yaml.MapSlice) {
	for _, item := range ms {
		key := strings.ReplaceAll(keyString(item.Key), "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := item.Value.(yaml.MapSlice); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = native(item.Value)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return yamlScalar(k)
}

// native converts a decoded YAML value to the form kong expects. Numbers
// are passed as strings for kong to parse into the flag's type, and
// sequences as the comma-separated list kong splits for slice flags.
func native(v any) any {
	switch v := v.(type) {
	case []any:
		list := make([]string, len(v))
		for i, e := range v {
			list[i] = yamlScalar(e)
		}

		return strings.Join(list, ",")

	case uint64, int64, int, float64:
		return yamlScalar(v)

	default:
		return v
	}
}

func yamlScalar(v any) string {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case bool:
		return strconv.FormatBool(v)

	case string:
		return v

	case nil:
		return ""

	default:
		data, err := yaml.Marshal(v)
		if err != nil {
			return ""
		}

		return strings.TrimSpace(string(data))
	}
}
