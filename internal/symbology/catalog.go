package symbology

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Names of the parameters synthesised from capability flags.
const (
	ParamGS1Mode       = "gs1Mode"
	ParamCompositeMode = "compositeMode"
	ParamCompositeData = "compositeData"
	ParamSupplement    = "supplement"
)

// rawCatalog is the on-disk YAML shape of the family catalog.
type rawCatalog struct {
	Families []rawFamily `yaml:"families"`
}

type rawFamily struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Capabilities []string       `yaml:"capabilities"`
	Parameters   []rawParameter `yaml:"parameters"`
}

type rawParameter struct {
	Name        string       `yaml:"name"`
	Label       string       `yaml:"label"`
	Description string       `yaml:"description"`
	Kind        string       `yaml:"kind"`
	Automatic   bool         `yaml:"automatic"` // prepend an "Automatic" option
	Options     []string     `yaml:"options"`
	Sequence    *rawSequence `yaml:"sequence"`
	Min         int          `yaml:"min"`
	Max         int          `yaml:"max"`
	Step        int          `yaml:"step"`
	Default     any          `yaml:"default"`
	Derive      string       `yaml:"derive"`
	Role        string       `yaml:"role"`
	Unset       *int         `yaml:"unset"`
}

// rawSequence generates option labels From..To inclusive.
type rawSequence struct {
	From   int    `yaml:"from"`
	To     int    `yaml:"to"`
	Step   int    `yaml:"step"`
	Format string `yaml:"format"`
}

// Load parses a YAML catalog and builds a registry from it.
func Load(r io.Reader) (*Registry, error) {
	var raw rawCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	families := make([]SymbolFamily, 0, len(raw.Families))
	for _, rf := range raw.Families {
		f, err := rf.toFamily()
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return NewRegistry(families)
}

// LoadBytes is Load over an in-memory catalog.
func LoadBytes(data []byte) (*Registry, error) {
	return Load(bytes.NewReader(data))
}

func (rf rawFamily) toFamily() (SymbolFamily, error) {
	f := SymbolFamily{ID: rf.ID, Name: rf.Name}
	for _, c := range rf.Capabilities {
		switch c {
		case "height":
			f.SupportsHeight = true
		case "text-margin":
			f.SupportsTextMargin = true
		case "gs1-mode":
			f.SupportsGS1Mode = true
		case "composite":
			f.SupportsComposite = true
		case "supplement":
			f.SupportsSupplement = true
		case "2d-sizing":
			f.Has2DSizing = true
		case "linear":
			f.Linear = true
		default:
			return SymbolFamily{}, fmt.Errorf("%w: %s has unknown capability %q", ErrInvalidSchema, rf.ID, c)
		}
	}

	for _, rp := range rf.Parameters {
		p, err := rp.toSpec()
		if err != nil {
			return SymbolFamily{}, fmt.Errorf("%w: %s.%s: %v", ErrInvalidSchema, rf.ID, rp.Name, err)
		}
		f.Schema = append(f.Schema, p)
	}
	f.Schema = appendCapabilityParameters(f)
	return f, nil
}

func (rp rawParameter) toSpec() (ParameterSpec, error) {
	kind, err := ParseKind(rp.Kind)
	if err != nil {
		return ParameterSpec{}, err
	}
	derive, err := ParseDerivation(rp.Derive)
	if err != nil {
		return ParameterSpec{}, err
	}
	role, err := parseRole(rp.Role)
	if err != nil {
		return ParameterSpec{}, err
	}

	p := ParameterSpec{
		Name:        rp.Name,
		Label:       rp.Label,
		Description: rp.Description,
		Kind:        kind,
		Derivation:  derive,
		Role:        role,
		UnsetValue:  Unset,
	}
	if p.Label == "" {
		p.Label = rp.Name
	}
	if rp.Unset != nil {
		p.UnsetValue = *rp.Unset
	}

	if kind == KindEnumeration {
		if rp.Automatic {
			p.Options = append(p.Options, "Automatic")
		}
		p.Options = append(p.Options, rp.Options...)
		if rp.Sequence != nil {
			p.Options = append(p.Options, rp.Sequence.labels()...)
		}
	}
	if kind == KindIntegerRange {
		p.Range = IntRange{Min: rp.Min, Max: rp.Max, Step: rp.Step}
		if p.Range.Step == 0 {
			p.Range.Step = 1
		}
	}

	p.Default, err = defaultValue(kind, rp.Default, p.Range)
	if err != nil {
		return ParameterSpec{}, err
	}
	return p, nil
}

func (s rawSequence) labels() []string {
	step := s.Step
	if step <= 0 {
		step = 1
	}
	format := s.Format
	if format == "" {
		format = "%d"
	}
	var labels []string
	for i := s.From; i <= s.To; i += step {
		labels = append(labels, fmt.Sprintf(format, i))
	}
	return labels
}

func parseRole(s string) (Role, error) {
	switch s {
	case "", "none":
		return RoleNone, nil
	case "size":
		return RoleSize, nil
	case "error-level":
		return RoleErrorLevel, nil
	default:
		return RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

func defaultValue(kind Kind, raw any, r IntRange) (Value, error) {
	switch kind {
	case KindEnumeration, KindIntegerRange:
		v := 0
		if kind == KindIntegerRange {
			v = r.Min
		}
		if raw != nil {
			n, ok := raw.(int)
			if !ok {
				return Value{}, fmt.Errorf("default %v is not an integer", raw)
			}
			v = n
		}
		return Value{Kind: kind, Int: v}, nil
	case KindBoolean:
		if raw == nil {
			return BoolValue(false), nil
		}
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("default %v is not a boolean", raw)
		}
		return BoolValue(b), nil
	default:
		if raw == nil {
			return TextValue(""), nil
		}
		return TextValue(fmt.Sprint(raw)), nil
	}
}

// appendCapabilityParameters adds the parameters implied by capability
// flags unless the catalog already declares them.
func appendCapabilityParameters(f SymbolFamily) []ParameterSpec {
	schema := f.Schema
	add := func(p ParameterSpec) {
		if _, exists := f.Parameter(p.Name); !exists {
			schema = append(schema, p)
		}
	}
	if f.SupportsGS1Mode {
		add(ParameterSpec{
			Name:        ParamGS1Mode,
			Label:       "GS1 Mode",
			Description: "Encode data as GS1 application identifiers",
			Kind:        KindBoolean,
			Default:     BoolValue(false),
			Derivation:  DeriveIdentity,
			UnsetValue:  Unset,
		})
	}
	if f.SupportsComposite {
		add(ParameterSpec{
			Name:        ParamCompositeMode,
			Label:       "Composite Type",
			Description: "2D component added above the linear symbol",
			Kind:        KindEnumeration,
			Options:     []string{"Automatic", "CC-A", "CC-B", "CC-C"},
			Default:     EnumValue(0),
			Derivation:  DeriveIdentity,
			UnsetValue:  Unset,
		})
		add(ParameterSpec{
			Name:        ParamCompositeData,
			Label:       "Composite Data",
			Description: "Data of the 2D component; empty for none",
			Kind:        KindFreeText,
			Default:     TextValue(""),
			Derivation:  DeriveIdentity,
			UnsetValue:  Unset,
		})
	}
	if f.SupportsSupplement {
		add(ParameterSpec{
			Name:        ParamSupplement,
			Label:       "Add-On",
			Description: "2 or 5 digit supplement; empty for none",
			Kind:        KindFreeText,
			Default:     TextValue(""),
			Derivation:  DeriveIdentity,
			UnsetValue:  Unset,
		})
	}
	return schema
}
