package anim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnyState is the wildcard transition source. A transition from AnyState
// can fire from any current state, but a satisfied specific-state
// transition always preempts it.
const AnyState = "ANY"

// BlendMode describes how a state's clip composites downstream. It is
// metadata for a blender; the resolver never evaluates it.
type BlendMode int

const (
	BlendModeOverride BlendMode = iota
	BlendModeAdditive
	BlendModeBlend
)

func parseBlendMode(s string) BlendMode {
	switch s {
	case "additive":
		return BlendModeAdditive
	case "blend":
		return BlendModeBlend
	}
	return BlendModeOverride
}

// String returns the wire name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendModeAdditive:
		return "additive"
	case BlendModeBlend:
		return "blend"
	}
	return "override"
}

// State labels a clip with blend metadata. Priority is informational,
// consumed by a downstream blender, not by the resolver.
type State struct {
	Name          string
	AnimationName string
	BlendMode     BlendMode
	Priority      int
}

// Transition is a guarded edge between two state names. Duration is blend
// metadata for a downstream blender; the resolver switches instantly.
type Transition struct {
	From       string
	To         string
	Duration   float64
	Conditions []Condition
}

// Evaluate ANDs the transition's conditions against the parameter set. An
// empty condition list always passes.
func (t Transition) Evaluate(params map[string]Value) bool {
	for _, c := range t.Conditions {
		if !c.Evaluate(params) {
			return false
		}
	}
	return true
}

// Graph is the parameter-conditioned state machine. Each instance is owned
// by one driving context; callers must serialize access themselves.
type Graph struct {
	name         string
	description  string
	bankPath     string
	params       map[string]Value
	states       map[string]*State
	transitions  []Transition
	defaultState string
	currentState string
	valid        bool
	err          error
}

// NewGraph creates an empty, invalid graph.
func NewGraph() *Graph {
	return &Graph{
		params: make(map[string]Value),
		states: make(map[string]*State),
	}
}

// Load parses a graph source: declared parameters seed the parameter set
// with typed defaults, states and transitions are stored in declaration
// order, and the current state becomes the default state. A transition
// whose from names an undeclared state is stored anyway; it simply never
// matches.
func (g *Graph) Load(data []byte) bool {
	if g == nil {
		return false
	}
	g.valid = false
	g.err = nil
	if g.params == nil {
		g.params = make(map[string]Value)
	}
	if g.states == nil {
		g.states = make(map[string]*State)
	}
	// params and states overwrite by key on a reload; the transition list
	// would otherwise keep appending, with stale edges scanned first
	g.transitions = nil

	var spec GraphSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		g.err = fmt.Errorf("anim: parse graph: %w", err)
		return false
	}
	g.name = spec.GraphName
	g.description = spec.Description
	g.bankPath = spec.AnimationBankPath
	g.defaultState = spec.DefaultState
	if g.defaultState == "" {
		g.defaultState = "Idle"
	}

	for _, p := range spec.Parameters {
		v, err := typedValueFromNode(p.Type, p.DefaultValue)
		if err != nil {
			g.err = fmt.Errorf("anim: parameter %s: %w", p.Name, err)
			return false
		}
		g.params[p.Name] = v
	}

	for _, s := range spec.States {
		g.states[s.Name] = &State{
			Name:          s.Name,
			AnimationName: s.AnimationName,
			BlendMode:     parseBlendMode(s.BlendMode),
			Priority:      s.Priority,
		}
		if s.Default {
			g.defaultState = s.Name
		}
	}

	for _, t := range spec.Transitions {
		tr := Transition{From: t.From, To: t.To, Duration: t.TransitionTime}
		for _, c := range t.Conditions {
			op, ok := ParseOperator(c.Operator)
			if !ok {
				g.err = fmt.Errorf("anim: transition %s->%s: unknown operator %q", t.From, t.To, c.Operator)
				return false
			}
			v, err := valueFromNode(&c.Value)
			if err != nil {
				g.err = fmt.Errorf("anim: transition %s->%s: condition on %s: %w", t.From, t.To, c.Parameter, err)
				return false
			}
			tr.Conditions = append(tr.Conditions, Condition{
				Parameter: c.Parameter,
				Op:        op,
				Operand:   v,
			})
		}
		g.transitions = append(g.transitions, tr)
	}

	g.currentState = g.defaultState
	g.valid = true
	return true
}

// LoadFromFile reads a graph source from disk and loads it.
func (g *Graph) LoadFromFile(path string) bool {
	if g == nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		g.valid = false
		g.err = fmt.Errorf("anim: read graph %s: %w", path, err)
		return false
	}
	return g.Load(data)
}

// AddState registers a state by name, overwriting any previous entry. The
// first state added to an empty graph becomes the default and current
// state.
func (g *Graph) AddState(s State) {
	if g == nil || s.Name == "" {
		return
	}
	if g.states == nil {
		g.states = make(map[string]*State)
	}
	st := s
	g.states[s.Name] = &st
	if g.defaultState == "" {
		g.defaultState = s.Name
		g.currentState = s.Name
	}
}

// AddTransition appends a transition. Order matters: the resolver scans
// transitions in insertion order.
func (g *Graph) AddTransition(t Transition) {
	if g == nil {
		return
	}
	g.transitions = append(g.transitions, t)
}

// Scalar enumerates the primitive types a parameter can hold.
type Scalar interface {
	bool | int | float64 | string
}

// SetParameter creates or overwrites a named parameter. The stored type
// follows the argument type, so writing a Float over an existing Int
// replaces the tag too.
func SetParameter[T Scalar](g *Graph, name string, v T) {
	if g == nil || name == "" {
		return
	}
	if g.params == nil {
		g.params = make(map[string]Value)
	}
	g.params[name] = scalarValue(v)
}

// GetParameter returns the stored value only when its tag matches T;
// otherwise it returns def. An Int parameter read as a float64 yields def,
// never a coercion.
func GetParameter[T Scalar](g *Graph, name string, def T) T {
	if g == nil || name == "" {
		return def
	}
	v, ok := g.params[name]
	if !ok {
		return def
	}
	switch any(def).(type) {
	case bool:
		if v.typ == TypeBool {
			return any(v.b).(T)
		}
	case int:
		if v.typ == TypeInt {
			return any(v.i).(T)
		}
	case float64:
		if v.typ == TypeFloat {
			return any(v.f).(T)
		}
	case string:
		if v.typ == TypeString {
			return any(v.s).(T)
		}
	}
	return def
}

func scalarValue[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(x)
	case float64:
		return FloatValue(x)
	case string:
		return StringValue(x)
	}
	return Value{}
}

// SetParameterValue stores a pre-built Value under name.
func (g *Graph) SetParameterValue(name string, v Value) {
	if g == nil || name == "" {
		return
	}
	if g.params == nil {
		g.params = make(map[string]Value)
	}
	g.params[name] = v
}

// ParameterValue returns the raw Value stored under name.
func (g *Graph) ParameterValue(name string) (Value, bool) {
	if g == nil {
		return Value{}, false
	}
	v, ok := g.params[name]
	return v, ok
}

// SetCurrentState assigns the current state only when name is a declared
// state; otherwise it is a silent no-op.
func (g *Graph) SetCurrentState(name string) {
	if g == nil {
		return
	}
	if _, ok := g.states[name]; ok {
		g.currentState = name
	}
}

// CurrentState returns the active state name.
func (g *Graph) CurrentState() string {
	if g == nil {
		return ""
	}
	return g.currentState
}

// DefaultState returns the state the graph starts in.
func (g *Graph) DefaultState() string {
	if g == nil {
		return ""
	}
	return g.defaultState
}

// GetState returns the state record for name, or nil.
func (g *Graph) GetState(name string) *State {
	if g == nil || name == "" {
		return nil
	}
	return g.states[name]
}

// CurrentAnimationName returns the clip name of the active state, or ""
// when the current state does not resolve to a declared state.
func (g *Graph) CurrentAnimationName() string {
	if g == nil {
		return ""
	}
	s, ok := g.states[g.currentState]
	if !ok {
		return ""
	}
	return s.AnimationName
}

// Update resolves at most one transition per call. Transitions are scanned
// once in insertion order: the first satisfied transition from the current
// state fires immediately; the first satisfied wildcard transition is
// remembered and fires only when no specific-state transition matched. dt
// is accepted for a future blend-progress tracker; the decision itself is
// purely parameter-driven.
func (g *Graph) Update(dt float64) bool {
	if g == nil {
		return false
	}
	_ = dt
	anyIdx := -1
	for i := range g.transitions {
		t := &g.transitions[i]
		switch t.From {
		case AnyState:
			if anyIdx < 0 && t.Evaluate(g.params) {
				anyIdx = i
			}
		case g.currentState:
			if t.Evaluate(g.params) {
				g.currentState = t.To
				return true
			}
		}
	}
	if anyIdx >= 0 {
		g.currentState = g.transitions[anyIdx].To
		return true
	}
	return false
}

// Name returns the graph's declared name.
func (g *Graph) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Description returns the graph's declared description.
func (g *Graph) Description() string {
	if g == nil {
		return ""
	}
	return g.description
}

// BankPath returns the bank source path the graph expects, as a string
// reference only; the graph never resolves it.
func (g *Graph) BankPath() string {
	if g == nil {
		return ""
	}
	return g.bankPath
}

// Valid reports whether the last Load completed fully.
func (g *Graph) Valid() bool {
	return g != nil && g.valid
}

// LastError returns the diagnostic from the last failed Load, or nil.
func (g *Graph) LastError() error {
	if g == nil {
		return nil
	}
	return g.err
}
