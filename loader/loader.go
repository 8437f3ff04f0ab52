// Package loader reads named schema sets from a configuration file so routes
// can be validated declaratively without compiling rules into code.
//
// File layout (YAML or JSON, inferred from the extension):
//
//	routes:
//	  task_create:
//	    params:
//	      id: { type: int, rules: "required,min=1" }
//	    body:
//	      title: { type: string, rules: "required,max=64" }
//
// Field names are lowercased by the underlying configuration library, so
// schema files should use snake_case names matching the JSON payloads.
package loader

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/shandysiswandi/govalid"
	"github.com/shandysiswandi/govalid/schema"
)

// Loader reads schema sets from a watched configuration file. Sets built
// after a reload reflect the new file contents; middleware already built from
// an earlier set keeps the schemas it was registered with.
type Loader struct {
	v *viper.Viper
}

// New loads the schema file at the given path and watches it for changes.
func New(pathFile string) (*Loader, error) {
	v := viper.New()

	filename := path.Base(pathFile)
	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("schema file reload failed", "path", pathFile, "err", err)
			return
		}
		slog.Info("schema file success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Loader{v: v}, nil
}

// Schemas builds the schema set registered under the given route name.
func (l *Loader) Schemas(name string) (govalid.Schemas, error) {
	key := "routes." + name
	if !l.v.IsSet(key) {
		return govalid.Schemas{}, fmt.Errorf("loader: route %q not defined", name)
	}

	var out govalid.Schemas

	params, err := l.fields(key + ".params")
	if err != nil {
		return govalid.Schemas{}, err
	}
	if params != nil {
		out.Params = params
	}

	query, err := l.fields(key + ".query")
	if err != nil {
		return govalid.Schemas{}, err
	}
	if query != nil {
		out.Query = query
	}

	body, err := l.fields(key + ".body")
	if err != nil {
		return govalid.Schemas{}, err
	}
	if body != nil {
		out.Body = body
	}

	return out, nil
}

// Routes returns the names of every route defined in the file.
func (l *Loader) Routes() []string {
	m := l.v.GetStringMap("routes")
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

type fieldSpec struct {
	Type   string `mapstructure:"type"`
	Rules  string `mapstructure:"rules"`
	Layout string `mapstructure:"layout"`
}

func (l *Loader) fields(key string) (schema.Fields, error) {
	if !l.v.IsSet(key) {
		return nil, nil
	}

	var specs map[string]fieldSpec
	if err := l.v.UnmarshalKey(key, &specs); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", key, err)
	}

	fs := make(schema.Fields, len(specs))
	for name, sp := range specs {
		value, err := sp.value()
		if err != nil {
			return nil, fmt.Errorf("loader: %s.%s: %w", key, name, err)
		}
		fs[name] = value
	}
	return fs, nil
}

func (sp fieldSpec) value() (schema.Value, error) {
	switch strings.ToLower(sp.Type) {
	case "string":
		return schema.String(sp.Rules), nil
	case "int", "integer":
		return schema.Int(sp.Rules), nil
	case "float", "number":
		return schema.Float(sp.Rules), nil
	case "bool", "boolean":
		return schema.Bool(sp.Rules), nil
	case "time", "date":
		layout := sp.Layout
		if layout == "" {
			layout = time.RFC3339
		}
		return schema.Time(layout, sp.Rules), nil
	default:
		return nil, fmt.Errorf("unknown field type %q", sp.Type)
	}
}
