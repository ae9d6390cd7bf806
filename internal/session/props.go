package session

import (
	"fmt"
	"strings"

	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// SetProperty sets one of the fixed properties of spec.md §6.1 by name,
// or, for any other name, a user property of type t (checked against any
// earlier set of the same name via types.Unify — a host can't silently
// change an existing property's type out from under itself). Fixed
// properties ignore t, since their type is already known; passing the
// wrong kind of value for one is reported the same as any other bad set.
func (s *Session) SetProperty(name string, t types.Type, v value.Value) error {
	switch name {
	case "lineWidth":
		return s.setIntProperty(name, v, &s.props.LineWidth)
	case "printLength":
		return s.setIntProperty(name, v, &s.props.PrintLength)
	case "printDepth":
		return s.setIntProperty(name, v, &s.props.PrintDepth)
	case "stringDepth":
		return s.setIntProperty(name, v, &s.props.StringDepth)
	case "hybrid":
		return s.setBoolProperty(name, v, &s.props.Hybrid)
	case "matchCoverageEnabled":
		if err := s.setBoolProperty(name, v, &s.props.MatchCoverageEnabled); err != nil {
			return err
		}

		s.el.MatchCoverageEnabled = s.props.MatchCoverageEnabled

		return nil
	case "output":
		sv, ok := v.(value.String)
		if !ok {
			return fmt.Errorf("property %s must be a string", name)
		}

		out := strings.ToUpper(string(sv))
		if out != "CLASSIC" && out != "TABULAR" {
			return fmt.Errorf("property %s must be CLASSIC or TABULAR, got %q", name, sv)
		}

		s.props.Output = out

		return nil
	default:
		return s.setUserProperty(name, t, v)
	}
}

func (s *Session) setIntProperty(name string, v value.Value, dst *int) error {
	iv, ok := v.(value.Int)
	if !ok {
		return fmt.Errorf("property %s must be an int", name)
	}

	*dst = int(iv)

	return nil
}

func (s *Session) setBoolProperty(name string, v value.Value, dst *bool) error {
	bv, ok := v.(value.Bool)
	if !ok {
		return fmt.Errorf("property %s must be a bool", name)
	}

	*dst = bool(bv)

	return nil
}

func (s *Session) setUserProperty(name string, t types.Type, v value.Value) error {
	if existing, ok := s.userProps[name]; ok {
		if err := types.Unify(s.fresh, existing.Type, t); err != nil {
			return fmt.Errorf("property %s: new value's type disagrees with its first: %w", name, err)
		}
	}

	s.userProps[name] = userProp{Type: t, Value: v}

	return nil
}

// GetProperty returns a fixed or user property's current value by name.
func (s *Session) GetProperty(name string) (value.Value, bool) {
	switch name {
	case "lineWidth":
		return value.Int(s.props.LineWidth), true
	case "printLength":
		return value.Int(s.props.PrintLength), true
	case "printDepth":
		return value.Int(s.props.PrintDepth), true
	case "stringDepth":
		return value.Int(s.props.StringDepth), true
	case "hybrid":
		return value.Bool(s.props.Hybrid), true
	case "matchCoverageEnabled":
		return value.Bool(s.props.MatchCoverageEnabled), true
	case "output":
		return value.String(s.props.Output), true
	default:
		p, ok := s.userProps[name]
		if !ok {
			return nil, false
		}

		return p.Value, true
	}
}

// ApplyProperties overwrites the fixed properties wholesale, e.g. after
// loading them from a morel.yaml config file via LoadProperties.
func (s *Session) ApplyProperties(props Properties) {
	s.props = props
	s.el.MatchCoverageEnabled = props.MatchCoverageEnabled
}

// PropertiesSnapshot returns the current fixed properties, e.g. for
// SaveProperties to persist.
func (s *Session) PropertiesSnapshot() Properties {
	return s.props
}
