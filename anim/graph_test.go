package anim

import "testing"

// locomotionGraph builds the Idle/Walk/Stunned graph used across resolver
// tests: Idle->Walk on Speed > 0, Walk->Idle on Speed <= 0, ANY->Stunned
// on Stunned == true, Stunned->Idle on Stunned == false.
func locomotionGraph() *Graph {
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "hero_idle"})
	g.AddState(State{Name: "Walk", AnimationName: "hero_walk"})
	g.AddState(State{Name: "Stunned", AnimationName: "hero_stunned", Priority: 10})
	g.AddTransition(Transition{From: "Idle", To: "Walk", Conditions: []Condition{
		{"Speed", OpGreater, FloatValue(0)},
	}})
	g.AddTransition(Transition{From: "Walk", To: "Idle", Conditions: []Condition{
		{"Speed", OpLessEqual, FloatValue(0)},
	}})
	g.AddTransition(Transition{From: AnyState, To: "Stunned", Conditions: []Condition{
		{"Stunned", OpEqual, BoolValue(true)},
	}})
	g.AddTransition(Transition{From: "Stunned", To: "Idle", Conditions: []Condition{
		{"Stunned", OpEqual, BoolValue(false)},
	}})
	SetParameter(g, "Speed", 0.0)
	SetParameter(g, "Stunned", false)
	return g
}

func TestUpdateWalkCycle(t *testing.T) {
	g := locomotionGraph()
	if g.CurrentState() != "Idle" {
		t.Fatalf("initial state = %q, want Idle", g.CurrentState())
	}

	SetParameter(g, "Speed", 5.0)
	if !g.Update(1.0 / 60.0) {
		t.Fatalf("Update should fire Idle->Walk")
	}
	if g.CurrentState() != "Walk" {
		t.Fatalf("state = %q, want Walk", g.CurrentState())
	}
	if g.CurrentAnimationName() != "hero_walk" {
		t.Fatalf("animation = %q, want hero_walk", g.CurrentAnimationName())
	}

	SetParameter(g, "Speed", 0.0)
	if !g.Update(1.0 / 60.0) {
		t.Fatalf("Update should fire Walk->Idle")
	}
	if g.CurrentState() != "Idle" {
		t.Fatalf("state = %q, want Idle", g.CurrentState())
	}
}

func TestUpdateAnyTransition(t *testing.T) {
	starts := []string{"Idle", "Walk", "Stunned"}
	for _, start := range starts {
		t.Run(start, func(t *testing.T) {
			g := locomotionGraph()
			if start == "Walk" {
				// keep Walk->Idle unsatisfied; a satisfied specific edge
				// would preempt the wildcard
				SetParameter(g, "Speed", 1.0)
			}
			g.SetCurrentState(start)

			SetParameter(g, "Stunned", true)
			g.Update(0)
			if g.CurrentState() != "Stunned" {
				t.Fatalf("state = %q, want Stunned", g.CurrentState())
			}

			// clearing the flag does not auto-revert without a matching
			// transition firing on a later tick
			SetParameter(g, "Stunned", false)
			if g.CurrentState() != "Stunned" {
				t.Fatalf("state changed without an Update call")
			}
			if !g.Update(0) {
				t.Fatalf("Update should fire Stunned->Idle")
			}
			if g.CurrentState() != "Idle" {
				t.Fatalf("state = %q, want Idle", g.CurrentState())
			}
		})
	}
}

func TestUpdateSpecificBeatsAny(t *testing.T) {
	// the ANY edge is declared before the specific edge and both are
	// satisfied; the specific edge must still win
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "idle"})
	g.AddState(State{Name: "T1", AnimationName: "t1"})
	g.AddState(State{Name: "T2", AnimationName: "t2"})
	g.AddTransition(Transition{From: AnyState, To: "T2"})
	g.AddTransition(Transition{From: "Idle", To: "T1"})

	if !g.Update(0) {
		t.Fatalf("Update should fire")
	}
	if g.CurrentState() != "T1" {
		t.Fatalf("state = %q, want T1 (specific preempts ANY)", g.CurrentState())
	}
}

func TestUpdateAnyFiresWithoutSpecificMatch(t *testing.T) {
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "idle"})
	g.AddState(State{Name: "T1", AnimationName: "t1"})
	g.AddState(State{Name: "T2", AnimationName: "t2"})
	g.AddTransition(Transition{From: "Idle", To: "T1", Conditions: []Condition{
		{"Go", OpEqual, BoolValue(true)},
	}})
	g.AddTransition(Transition{From: AnyState, To: "T2"})

	if !g.Update(0) {
		t.Fatalf("Update should fire the ANY transition")
	}
	if g.CurrentState() != "T2" {
		t.Fatalf("state = %q, want T2", g.CurrentState())
	}
}

func TestUpdateFirstAnyWins(t *testing.T) {
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "idle"})
	g.AddState(State{Name: "A", AnimationName: "a"})
	g.AddState(State{Name: "B", AnimationName: "b"})
	g.AddTransition(Transition{From: AnyState, To: "A"})
	g.AddTransition(Transition{From: AnyState, To: "B"})

	g.Update(0)
	if g.CurrentState() != "A" {
		t.Fatalf("state = %q, want A (first satisfied ANY wins)", g.CurrentState())
	}
}

func TestUpdateNoMatchReturnsFalse(t *testing.T) {
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "idle"})
	g.AddState(State{Name: "Walk", AnimationName: "walk"})
	g.AddTransition(Transition{From: "Idle", To: "Walk", Conditions: []Condition{
		{"Speed", OpGreater, FloatValue(0)},
	}})

	if g.Update(0) {
		t.Fatalf("Update fired with no satisfied transition")
	}
	if g.CurrentState() != "Idle" {
		t.Fatalf("state = %q, want Idle", g.CurrentState())
	}
}

func TestUpdateResolvesOneTransitionPerTick(t *testing.T) {
	g := NewGraph()
	g.AddState(State{Name: "A", AnimationName: "a"})
	g.AddState(State{Name: "B", AnimationName: "b"})
	g.AddState(State{Name: "C", AnimationName: "c"})
	g.AddTransition(Transition{From: "A", To: "B"})
	g.AddTransition(Transition{From: "B", To: "C"})

	g.Update(0)
	if g.CurrentState() != "B" {
		t.Fatalf("first tick: state = %q, want B", g.CurrentState())
	}
	g.Update(0)
	if g.CurrentState() != "C" {
		t.Fatalf("second tick: state = %q, want C", g.CurrentState())
	}
}

func TestUpdateDeadEdgeNeverMatches(t *testing.T) {
	// a transition from an undeclared state is stored but can never match
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "idle"})
	g.AddState(State{Name: "Walk", AnimationName: "walk"})
	g.AddTransition(Transition{From: "Ghost", To: "Walk"})

	for i := 0; i < 3; i++ {
		if g.Update(0) {
			t.Fatalf("dead edge fired on tick %d", i)
		}
	}
	if g.CurrentState() != "Idle" {
		t.Fatalf("state = %q, want Idle", g.CurrentState())
	}
}

func TestSetCurrentStateUnknownIsNoOp(t *testing.T) {
	g := locomotionGraph()
	g.SetCurrentState("Walk")
	g.SetCurrentState("does-not-exist")
	if g.CurrentState() != "Walk" {
		t.Fatalf("state = %q, want Walk", g.CurrentState())
	}
}

func TestParameterTypedReads(t *testing.T) {
	g := NewGraph()
	SetParameter(g, "Speed", 3.5)
	SetParameter(g, "Coins", 7)
	SetParameter(g, "Name", "hero")
	SetParameter(g, "Alive", true)

	if got := GetParameter(g, "Speed", 0.0); got != 3.5 {
		t.Fatalf("float read = %v, want 3.5", got)
	}
	// a Float parameter read as an Int yields the default, never a coercion
	if got := GetParameter(g, "Speed", -1); got != -1 {
		t.Fatalf("mismatched int read = %v, want -1", got)
	}
	if got := GetParameter(g, "Coins", 0); got != 7 {
		t.Fatalf("int read = %v, want 7", got)
	}
	if got := GetParameter(g, "Coins", 0.5); got != 0.5 {
		t.Fatalf("mismatched float read = %v, want 0.5", got)
	}
	if got := GetParameter(g, "Name", ""); got != "hero" {
		t.Fatalf("string read = %q, want hero", got)
	}
	if got := GetParameter(g, "Alive", false); !got {
		t.Fatalf("bool read = false, want true")
	}
	if got := GetParameter(g, "Missing", 42); got != 42 {
		t.Fatalf("unknown parameter read = %v, want 42", got)
	}
}

func TestSetParameterLastWriteWins(t *testing.T) {
	g := NewGraph()
	SetParameter(g, "X", 1)
	SetParameter(g, "X", 2.5) // overwrites the value and the tag

	if got := GetParameter(g, "X", -1); got != -1 {
		t.Fatalf("int read after float overwrite = %v, want -1", got)
	}
	if got := GetParameter(g, "X", 0.0); got != 2.5 {
		t.Fatalf("float read = %v, want 2.5", got)
	}
}

func TestCurrentAnimationNameUnresolved(t *testing.T) {
	g := NewGraph()
	g.AddState(State{Name: "Idle", AnimationName: "idle"})
	g.AddTransition(Transition{From: "Idle", To: "Nowhere"})

	g.Update(0)
	if g.CurrentState() != "Nowhere" {
		t.Fatalf("state = %q, want Nowhere", g.CurrentState())
	}
	if got := g.CurrentAnimationName(); got != "" {
		t.Fatalf("animation = %q, want empty for unresolved state", got)
	}
}

func TestGraphLoadFromSource(t *testing.T) {
	g := NewGraph()
	if !g.LoadFromFile("testdata/hero.graph.yaml") {
		t.Fatalf("LoadFromFile failed: %v", g.LastError())
	}
	if !g.Valid() {
		t.Fatalf("graph should be valid after load")
	}
	if g.Name() != "hero" {
		t.Fatalf("Name = %q, want hero", g.Name())
	}
	if g.BankPath() != "banks/hero.bank.yaml" {
		t.Fatalf("BankPath = %q", g.BankPath())
	}
	if g.DefaultState() != "Idle" || g.CurrentState() != "Idle" {
		t.Fatalf("default/current = %q/%q, want Idle/Idle", g.DefaultState(), g.CurrentState())
	}

	st := g.GetState("Stunned")
	if st == nil {
		t.Fatalf("state Stunned missing")
	}
	if st.Priority != 10 {
		t.Fatalf("Stunned priority = %d, want 10", st.Priority)
	}
	if st.BlendMode != BlendModeOverride {
		t.Fatalf("Stunned blend mode = %v, want override", st.BlendMode)
	}

	// declared parameters seed typed defaults
	if got := GetParameter(g, "Speed", -1.0); got != 0 {
		t.Fatalf("Speed default = %v, want 0", got)
	}
	if got := GetParameter(g, "Stunned", true); got {
		t.Fatalf("Stunned default = true, want false")
	}

	// the loaded graph runs the scenario end to end
	SetParameter(g, "Speed", 5.0)
	g.Update(1.0 / 60.0)
	if g.CurrentState() != "Walk" {
		t.Fatalf("state = %q, want Walk", g.CurrentState())
	}
	SetParameter(g, "Stunned", true)
	g.Update(1.0 / 60.0)
	if g.CurrentState() != "Stunned" {
		t.Fatalf("state = %q, want Stunned", g.CurrentState())
	}
}

func TestGraphLoadDefaultStateFallsBackToIdle(t *testing.T) {
	src := []byte(`
graphName: minimal
states:
  - name: Idle
    animationName: idle
`)
	g := NewGraph()
	if !g.Load(src) {
		t.Fatalf("Load failed: %v", g.LastError())
	}
	if g.DefaultState() != "Idle" {
		t.Fatalf("default = %q, want Idle", g.DefaultState())
	}
}

func TestGraphLoadIntOperandStaysInt(t *testing.T) {
	// `value: 0` is an int literal; compared against a float parameter it
	// is a strict mismatch, so the transition never fires
	src := []byte(`
graphName: mismatch
defaultState: Idle
parameters:
  - name: Speed
    type: float
    defaultValue: 0.0
states:
  - name: Idle
    animationName: idle
  - name: Walk
    animationName: walk
transitions:
  - from: Idle
    to: Walk
    conditions:
      - parameter: Speed
        operator: ">"
        value: 0
`)
	g := NewGraph()
	if !g.Load(src) {
		t.Fatalf("Load failed: %v", g.LastError())
	}
	SetParameter(g, "Speed", 100.0)
	if g.Update(0) {
		t.Fatalf("int operand fired against a float parameter")
	}
	if g.CurrentState() != "Idle" {
		t.Fatalf("state = %q, want Idle", g.CurrentState())
	}
}

func TestGraphReloadReplacesTransitions(t *testing.T) {
	first := []byte(`
graphName: v1
defaultState: Idle
states:
  - name: Idle
    animationName: idle
  - name: Walk
    animationName: walk
transitions:
  - from: Idle
    to: Walk
`)
	second := []byte(`
graphName: v2
defaultState: Idle
states:
  - name: Idle
    animationName: idle
  - name: Run
    animationName: run
transitions:
  - from: Idle
    to: Run
`)

	g := NewGraph()
	if !g.Load(first) {
		t.Fatalf("first Load failed: %v", g.LastError())
	}
	if !g.Load(second) {
		t.Fatalf("second Load failed: %v", g.LastError())
	}

	if len(g.transitions) != 1 {
		t.Fatalf("transitions after reload = %d, want 1", len(g.transitions))
	}

	// resolution follows the new source, not a stale edge from the old one
	if !g.Update(0) {
		t.Fatalf("Update should fire")
	}
	if g.CurrentState() != "Run" {
		t.Fatalf("state = %q, want Run", g.CurrentState())
	}
}

func TestGraphLoadBadSource(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unparsable", "states: [unclosed"},
		{"unknown_operator", `
graphName: bad
states:
  - name: Idle
    animationName: idle
transitions:
  - from: Idle
    to: Idle
    conditions:
      - parameter: X
        operator: "~="
        value: 1
`},
		{"unknown_parameter_type", `
graphName: bad
parameters:
  - name: X
    type: vec2
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewGraph()
			if g.Load([]byte(c.src)) {
				t.Fatalf("Load should fail")
			}
			if g.Valid() {
				t.Fatalf("graph should stay invalid")
			}
			if g.LastError() == nil {
				t.Fatalf("LastError should carry a diagnostic")
			}
		})
	}
}

func TestGraphLoadDefaultStateOverride(t *testing.T) {
	src := []byte(`
graphName: override
defaultState: Idle
states:
  - name: Idle
    animationName: idle
  - name: Fall
    animationName: fall
    default: true
`)
	g := NewGraph()
	if !g.Load(src) {
		t.Fatalf("Load failed: %v", g.LastError())
	}
	if g.DefaultState() != "Fall" {
		t.Fatalf("default = %q, want Fall (state-level default wins)", g.DefaultState())
	}
	if g.CurrentState() != "Fall" {
		t.Fatalf("current = %q, want Fall", g.CurrentState())
	}
}

func TestUpdateIsDeltaTimeIndependent(t *testing.T) {
	// the decision is purely parameter-driven; dt must not affect it
	for _, dt := range []float64{0, 1.0 / 240.0, 1.0 / 60.0, 10} {
		g := locomotionGraph()
		SetParameter(g, "Speed", 1.0)
		if !g.Update(dt) {
			t.Fatalf("dt=%v: Update should fire", dt)
		}
		if g.CurrentState() != "Walk" {
			t.Fatalf("dt=%v: state = %q, want Walk", dt, g.CurrentState())
		}
	}
}
