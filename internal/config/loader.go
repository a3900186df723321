package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Load fills cfg (a pointer to a struct) from struct-tag defaults, an
// optional INI file given via --config, and command-line flags, in that
// order of precedence (flags win). Supported tags: name, alias, default,
// help, required. Remaining positional arguments are returned.
func Load(cfg interface{}, args []string) ([]string, error) {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("cfg must be a pointer to a struct")
	}
	v = v.Elem()

	fields := parseStructTags(v, v.Type())

	if err := applyDefaults(fields); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to config file")

	flagValues := make(map[string]interface{})
	for _, f := range fields {
		registerFlag(fs, f, flagValues)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		return nil, err
	}

	if configPath != "" {
		if err := loadINI(configPath, fields); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyFlags(fields, flagValues, fs)

	if err := validateRequired(fields); err != nil {
		return nil, err
	}

	return fs.Args(), nil
}

type fieldInfo struct {
	field        reflect.Value
	name         string
	aliases      []string
	help         string
	fieldType    reflect.Type
	isRequired   bool
	defaultValue string
}

func parseStructTags(v reflect.Value, t reflect.Type) []fieldInfo {
	var fields []fieldInfo

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)

		if !fv.CanSet() {
			continue
		}

		name := sf.Tag.Get("name")
		if name == "" {
			name = toKebabCase(sf.Name)
		}

		var aliases []string
		if aliasTag := sf.Tag.Get("alias"); aliasTag != "" {
			for _, a := range strings.Split(aliasTag, ",") {
				aliases = append(aliases, strings.TrimSpace(a))
			}
		}

		fields = append(fields, fieldInfo{
			field:        fv,
			name:         name,
			aliases:      aliases,
			help:         sf.Tag.Get("help"),
			fieldType:    sf.Type,
			isRequired:   sf.Tag.Get("required") == "true",
			defaultValue: sf.Tag.Get("default"),
		})
	}

	return fields
}

func registerFlag(fs *flag.FlagSet, f fieldInfo, values map[string]interface{}) {
	names := append([]string{f.name}, f.aliases...)

	switch f.fieldType.Kind() {
	case reflect.String:
		ptr := new(string)
		for _, n := range names {
			fs.StringVar(ptr, n, "", f.help)
		}
		values[f.name] = ptr
	case reflect.Int:
		ptr := new(int)
		for _, n := range names {
			fs.IntVar(ptr, n, 0, f.help)
		}
		values[f.name] = ptr
	case reflect.Bool:
		ptr := new(bool)
		for _, n := range names {
			fs.BoolVar(ptr, n, false, f.help)
		}
		values[f.name] = ptr
	case reflect.Slice:
		if f.fieldType.Elem().Kind() == reflect.String {
			ptr := new(string)
			help := f.help
			if !strings.Contains(strings.ToLower(help), "comma") {
				help += " (comma-separated)"
			}
			for _, n := range names {
				fs.StringVar(ptr, n, "", help)
			}
			values[f.name] = ptr
		}
	}
}

func setFieldValue(fv reflect.Value, ft reflect.Type, value string) error {
	switch ft.Kind() {
	case reflect.String:
		fv.SetString(value)
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		fv.SetInt(int64(v))
	case reflect.Bool:
		fv.SetBool(ParseBool(value))
	case reflect.Slice:
		if ft.Elem().Kind() == reflect.String {
			fv.Set(reflect.ValueOf(splitList(value)))
		}
	default:
		return fmt.Errorf("unsupported type: %v", ft.Kind())
	}
	return nil
}

func applyFlags(fields []fieldInfo, values map[string]interface{}, fs *flag.FlagSet) {
	visited := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		visited[fl.Name] = true
	})

	for _, f := range fields {
		ptr, ok := values[f.name]
		if !ok {
			continue
		}

		seen := visited[f.name]
		for _, a := range f.aliases {
			seen = seen || visited[a]
		}
		if !seen {
			continue
		}

		switch v := ptr.(type) {
		case *string:
			if f.fieldType.Kind() == reflect.Slice {
				f.field.Set(reflect.ValueOf(splitList(*v)))
			} else {
				f.field.SetString(*v)
			}
		case *int:
			f.field.SetInt(int64(*v))
		case *bool:
			f.field.SetBool(*v)
		}
	}
}

func applyDefaults(fields []fieldInfo) error {
	for _, f := range fields {
		if f.defaultValue == "" {
			continue
		}
		if err := setFieldValue(f.field, f.fieldType, f.defaultValue); err != nil {
			return fmt.Errorf("invalid default for %s: %w", f.name, err)
		}
	}
	return nil
}

func validateRequired(fields []fieldInfo) error {
	var missing []string
	for _, f := range fields {
		if f.isRequired && f.field.IsZero() {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('-')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func ParseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "yes" || value == "1" || value == "on"
}
