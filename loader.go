package activerow

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"
)

// Table declarations can be loaded from YAML documents shaped as a mapping
// from table name to its configuration:
//
//	users:
//	  key_field: user_id
//	  display_field: name
//	  fields:
//	    - name: name
//	      type: text
//	      required: true
//	      max_size: 1k
//	      case: title
//	    - name: manager
//	      type: ref
//	      table: users
//
// Hooks and record-level checks cannot be declared in YAML; attach them to
// the loaded tables in code.

type tableConfig struct {
	TableName    string        `yaml:"table_name"`
	KeyField     string        `yaml:"key_field"`
	DisplayField string        `yaml:"display_field"`
	Fields       []fieldConfig `yaml:"fields"`
}

type fieldConfig struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Label      string         `yaml:"label"`
	Required   bool           `yaml:"required"`
	MaxSize    string         `yaml:"max_size"`
	Case       string         `yaml:"case"`
	Crunch     bool           `yaml:"crunch"`
	Default    any            `yaml:"default"`
	WriteOnce  bool           `yaml:"write_once"`
	Table      string         `yaml:"table"`
	Options    []optionConfig `yaml:"options"`
	Words      map[string]int `yaml:"words"`
	TrueLabel  string         `yaml:"true_label"`
	FalseLabel string         `yaml:"false_label"`
	TrueImage  string         `yaml:"true_image"`
	FalseImage string         `yaml:"false_image"`
}

type optionConfig struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Load reads YAML table declarations and returns a linked Schema.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes parses YAML table declarations and returns a linked Schema.
func LoadBytes(data []byte) (*Schema, error) {
	var cfg map[string]tableConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing schema: %w", err)
	}

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	schema := NewSchema()
	for _, name := range names {
		table, err := buildTable(name, cfg[name])
		if err != nil {
			return nil, err
		}
		if err := schema.Add(table); err != nil {
			return nil, err
		}
	}
	if err := schema.Link(); err != nil {
		return nil, err
	}
	return schema, nil
}

func buildTable(name string, cfg tableConfig) (*Table, error) {
	tableName := cfg.TableName
	if tableName == "" {
		tableName = name
	}
	t := &Table{
		Name:         tableName,
		KeyField:     cfg.KeyField,
		DisplayField: cfg.DisplayField,
	}
	for _, fc := range cfg.Fields {
		def, err := buildFieldDef(tableName, fc)
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, def)
	}
	return t, nil
}

func buildFieldDef(tableName string, cfg fieldConfig) (FieldDef, error) {
	kind, err := parseKind(cfg.Type)
	if err != nil {
		return FieldDef{}, NewConfigErrorf("field '%s.%s': %v", tableName, cfg.Name, err)
	}
	caseRule, err := parseCase(cfg.Case)
	if err != nil {
		return FieldDef{}, NewConfigErrorf("field '%s.%s': %v", tableName, cfg.Name, err)
	}
	def := FieldDef{
		Name:       cfg.Name,
		Kind:       kind,
		Label:      cfg.Label,
		Required:   cfg.Required,
		MaxSize:    cfg.MaxSize,
		Case:       caseRule,
		Crunch:     cfg.Crunch,
		Default:    cfg.Default,
		WriteOnce:  cfg.WriteOnce,
		RefTable:   cfg.Table,
		TrueLabel:  cfg.TrueLabel,
		FalseLabel: cfg.FalseLabel,
		TrueImage:  cfg.TrueImage,
		FalseImage: cfg.FalseImage,
	}
	for _, oc := range cfg.Options {
		def.Options = append(def.Options, Option{Value: oc.Value, Label: oc.Label})
	}
	if cfg.Words != nil {
		def.Words = BoolWords(cfg.Words)
	}
	return def, nil
}

func parseKind(s string) (FieldKind, error) {
	switch s {
	case "", "text":
		return KindText, nil
	case "longtext":
		return KindLongText, nil
	case "ref":
		return KindRef, nil
	case "bool":
		return KindBool, nil
	case "choice":
		return KindChoice, nil
	case "radio":
		return KindRadio, nil
	}
	return 0, fmt.Errorf("unknown field type '%s'", s)
}

func parseCase(s string) (CaseRule, error) {
	switch s {
	case "":
		return CaseNone, nil
	case "upper":
		return CaseUpper, nil
	case "lower":
		return CaseLower, nil
	case "title":
		return CaseTitle, nil
	}
	return 0, fmt.Errorf("unknown case rule '%s'", s)
}
