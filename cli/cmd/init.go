package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/widgen/log"
	"github.com/ardnew/widgen/pkg"
	"github.com/ardnew/widgen/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// ignoreFlags are prefixes of flags never written to the configuration file.
var ignoreFlags = []string{"help", "version", "source", profile.Tag}

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	data, err := yaml.MarshalWithOptions(i.config(ktx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrYAMLMarshal.Wrap(err))
	}

	header := "# " + pkg.Name + " configuration\n"

	if err := writeFileAtomic(confPath, append([]byte(header), data...)); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// config returns the current value of every top-level flag. Flags whose
// name begins with their group key are nested under that key, which the
// configuration resolver flattens back to the flag name.
func (i *Init) config(ktx *kong.Context) yaml.MapSlice {
	var (
		ms     yaml.MapSlice
		groups = make(map[string]int)
	)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoreFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := configValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		if flag.Group != nil {
			if key, ok := strings.CutPrefix(flag.Name, flag.Group.Key+"-"); ok {
				idx, seen := groups[flag.Group.Key]
				if !seen {
					idx = len(ms)
					groups[flag.Group.Key] = idx
					ms = append(ms, yaml.MapItem{Key: flag.Group.Key, Value: yaml.MapSlice{}})
				}

				sub, _ := ms[idx].Value.(yaml.MapSlice)
				ms[idx].Value = append(sub, yaml.MapItem{Key: key, Value: val})

				continue
			}
		}

		ms = append(ms, yaml.MapItem{Key: flag.Name, Value: val})
	}

	return ms
}

// configValue returns the YAML form of a flag value, or false when the
// value is empty.
func configValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true

	case reflect.String:
		return rv.String(), rv.Len() > 0

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}

		list := make([]any, 0, rv.Len())

		for j := range rv.Len() {
			if elem, ok := configValue(rv.Index(j).Interface()); ok {
				list = append(list, elem)
			}
		}

		return list, len(list) > 0

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}

		return configValue(rv.Elem().Interface())

	default:
		return fmt.Sprint(v), true
	}
}
