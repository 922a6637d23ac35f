package anim

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// BankSpec mirrors the YAML layout of a bank source.
type BankSpec struct {
	BankName     string            `yaml:"bankName"`
	Description  string            `yaml:"description"`
	SpriteSheets []SpriteSheetSpec `yaml:"spritesheets"`
	Animations   []ClipSpec        `yaml:"animations"`
}

// SpriteSheetSpec describes one spritesheet entry. Zero-valued fields take
// per-entry defaults when the bank builds the descriptor; Hotspot is a
// pointer so an absent pivot can default to the frame center.
type SpriteSheetSpec struct {
	ID          string       `yaml:"id"`
	Path        string       `yaml:"path"`
	FrameWidth  int          `yaml:"frameWidth"`
	FrameHeight int          `yaml:"frameHeight"`
	Columns     int          `yaml:"columns"`
	Rows        int          `yaml:"rows"`
	TotalFrames int          `yaml:"totalFrames"`
	Spacing     int          `yaml:"spacing"`
	Margin      int          `yaml:"margin"`
	Hotspot     *HotspotSpec `yaml:"hotspot,omitempty"`
}

// HotspotSpec is a pivot point in frame-local pixels.
type HotspotSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ClipSpec describes one animation entry. Looping is a pointer so an
// absent flag defaults to true.
type ClipSpec struct {
	Name          string      `yaml:"name"`
	SpriteSheetID string      `yaml:"spritesheetId"`
	StartFrame    int         `yaml:"startFrame"`
	EndFrame      int         `yaml:"endFrame"`
	Framerate     float64     `yaml:"framerate"`
	Looping       *bool       `yaml:"looping,omitempty"`
	Events        []EventSpec `yaml:"events,omitempty"`
}

// EventSpec is a frame-indexed event. Data is kept as a raw node and
// re-serialized verbatim; the core never interprets its structure.
type EventSpec struct {
	Frame int       `yaml:"frame"`
	Type  string    `yaml:"type"`
	Data  yaml.Node `yaml:"data,omitempty"`
}

// GraphSpec mirrors the YAML layout of a graph source.
type GraphSpec struct {
	GraphName         string           `yaml:"graphName"`
	Description       string           `yaml:"description"`
	AnimationBankPath string           `yaml:"animationBankPath"`
	DefaultState      string           `yaml:"defaultState"`
	Parameters        []ParameterSpec  `yaml:"parameters"`
	States            []StateSpec      `yaml:"states"`
	Transitions       []TransitionSpec `yaml:"transitions"`
}

// ParameterSpec declares a parameter with its type and default.
type ParameterSpec struct {
	Name         string    `yaml:"name"`
	Type         string    `yaml:"type"`
	DefaultValue yaml.Node `yaml:"defaultValue,omitempty"`
}

// StateSpec describes one state entry. Default marks the entry as the
// graph's default state, overriding the top-level defaultState field.
type StateSpec struct {
	Name          string `yaml:"name"`
	AnimationName string `yaml:"animationName"`
	Priority      int    `yaml:"priority"`
	BlendMode     string `yaml:"blendMode"`
	Default       bool   `yaml:"default"`
}

// TransitionSpec describes one transition entry. From may be the wildcard
// sentinel "ANY".
type TransitionSpec struct {
	From           string          `yaml:"from"`
	To             string          `yaml:"to"`
	TransitionTime float64         `yaml:"transitionTime"`
	Conditions     []ConditionSpec `yaml:"conditions,omitempty"`
}

// ConditionSpec is one comparison. Value keeps the raw node so the operand
// type follows the YAML scalar tag, never a coercion.
type ConditionSpec struct {
	Parameter string    `yaml:"parameter"`
	Operator  string    `yaml:"operator"`
	Value     yaml.Node `yaml:"value"`
}

// valueFromNode infers a Value from a YAML scalar's resolved tag. An
// integer literal stays an Int even when the parameter it will be compared
// against is a Float; authors write `0.0` when they mean a float.
func valueFromNode(n *yaml.Node) (Value, error) {
	if n == nil || n.IsZero() {
		return Value{}, fmt.Errorf("missing value")
	}
	switch n.ShortTag() {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case "!!int":
		var i int
		if err := n.Decode(&i); err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case "!!str":
		return StringValue(n.Value), nil
	}
	return Value{}, fmt.Errorf("unsupported value %q", n.Value)
}

// typedValueFromNode decodes a node as the declared parameter type. A zero
// node yields the type's zero value.
func typedValueFromNode(typeName string, n yaml.Node) (Value, error) {
	switch typeName {
	case "bool":
		var b bool
		if !n.IsZero() {
			if err := n.Decode(&b); err != nil {
				return Value{}, err
			}
		}
		return BoolValue(b), nil
	case "int":
		var i int
		if !n.IsZero() {
			if err := n.Decode(&i); err != nil {
				return Value{}, err
			}
		}
		return IntValue(i), nil
	case "float":
		var f float64
		if !n.IsZero() {
			if err := n.Decode(&f); err != nil {
				return Value{}, err
			}
		}
		return FloatValue(f), nil
	case "string":
		var s string
		if !n.IsZero() {
			if err := n.Decode(&s); err != nil {
				return Value{}, err
			}
		}
		return StringValue(s), nil
	}
	return Value{}, fmt.Errorf("unknown parameter type %q", typeName)
}

// opaqueData re-serializes an event payload node without interpreting it.
// Scalars pass through as-is; structured payloads come back as YAML text.
func opaqueData(n yaml.Node) (string, error) {
	if n.IsZero() {
		return "", nil
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	out, err := yaml.Marshal(&n)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
