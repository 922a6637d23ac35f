package script

import (
	"fmt"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/animgraph/anim"
)

// Dispatcher runs frame-event payloads as tengo snippets. The animation
// core hands payloads through uninterpreted; what a payload means is
// decided here, downstream of the graph.
type Dispatcher struct {
	mu       sync.Mutex
	compiled map[string]*tengo.Compiled

	// OnEmit receives every emit("...") call made by a payload.
	OnEmit func(name string)
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{compiled: make(map[string]*tengo.Compiled)}
}

// Dispatch compiles the event's payload on first use and runs it with
// `frame`, `event`, and the `emit` function in scope. An empty payload is
// a no-op.
func (d *Dispatcher) Dispatch(evt anim.FrameEvent) error {
	if d == nil || strings.TrimSpace(evt.Data) == "" {
		return nil
	}

	compiled, err := d.getCompiled(evt.Data)
	if err != nil {
		return fmt.Errorf("script: compile event payload: %w", err)
	}

	if err := compiled.Set("frame", evt.Frame); err != nil {
		return err
	}
	if err := compiled.Set("event", evt.Type); err != nil {
		return err
	}
	if err := compiled.Set("emit", d.emitFunc()); err != nil {
		return err
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("script: run event payload: %w", err)
	}
	return nil
}

func (d *Dispatcher) getCompiled(src string) (*tengo.Compiled, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.compiled == nil {
		d.compiled = make(map[string]*tengo.Compiled)
	}
	if c, ok := d.compiled[src]; ok {
		return c, nil
	}

	s := tengo.NewScript([]byte(src))
	_ = s.Add("frame", 0)
	_ = s.Add("event", "")
	_ = s.Add("emit", &tengo.UserFunction{Name: "emit"})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	c, err := s.Compile()
	if err != nil {
		return nil, err
	}
	d.compiled[src] = c
	return c, nil
}

func (d *Dispatcher) emitFunc() *tengo.UserFunction {
	return &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		if d.OnEmit != nil {
			d.OnEmit(name)
		}
		return tengo.TrueValue, nil
	}}
}

func objectAsString(o tengo.Object) string {
	if o == nil {
		return ""
	}
	if s, ok := tengo.ToString(o); ok {
		return s
	}
	return o.String()
}
