package component

import (
	"fmt"
	"strings"
)

// Spec identifies one component to boot: its name, an optional version
// constraint and whether the component should be loaded but never started.
type Spec struct {
	Name     string
	Version  string
	LoadOnly bool
}

// loadOnlyMarker is the third element of a {name, version, load} triple.
const loadOnlyMarker = "load"

// ParseSpecs normalizes the resolved component set into Specs. It accepts:
//
//   - a delimited string like "a,b:c d" (commas, colons and spaces all split),
//   - a list of bare identifiers,
//   - list entries of the form {name}, {name, version} or
//     {name, version, load}.
func ParseSpecs(value any) ([]Spec, error) {
	switch v := value.(type) {
	case string:
		return parseDelimited(v), nil
	case []string:
		specs := make([]Spec, 0, len(v))
		for _, name := range v {
			specs = append(specs, parseDelimited(name)...)
		}
		return specs, nil
	case []any:
		specs := make([]Spec, 0, len(v))
		for _, item := range v {
			spec, err := parseItem(item)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		return specs, nil
	default:
		return nil, fmt.Errorf("unsupported component list of type %T", value)
	}
}

func parseDelimited(s string) []Spec {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ':' || r == ' ' || r == '\t'
	})
	specs := make([]Spec, 0, len(fields))
	for _, name := range fields {
		specs = append(specs, Spec{Name: name})
	}
	return specs
}

func parseItem(item any) (Spec, error) {
	switch v := item.(type) {
	case string:
		return Spec{Name: v}, nil
	case []any:
		if len(v) < 1 || len(v) > 3 {
			return Spec{}, fmt.Errorf("component entry must have 1 to 3 elements, got %d", len(v))
		}
		spec := Spec{}
		name, ok := v[0].(string)
		if !ok {
			return Spec{}, fmt.Errorf("component name must be a string, got %T", v[0])
		}
		spec.Name = name
		if len(v) >= 2 {
			version, ok := v[1].(string)
			if !ok {
				return Spec{}, fmt.Errorf("component %s: version must be a string, got %T", name, v[1])
			}
			spec.Version = version
		}
		if len(v) == 3 {
			marker, ok := v[2].(string)
			if !ok || marker != loadOnlyMarker {
				return Spec{}, fmt.Errorf("component %s: third element must be %q, got %v", name, loadOnlyMarker, v[2])
			}
			spec.LoadOnly = true
		}
		return spec, nil
	default:
		return Spec{}, fmt.Errorf("unsupported component entry of type %T", item)
	}
}
