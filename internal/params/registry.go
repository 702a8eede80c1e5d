// Package params implements the engine's process-wide parameter
// registry: a typed, listener-driven key-value
// store that is the sole place search, evaluation, and time-management
// configuration lives. The UCI front-end is its only runtime writer,
// through setoption; search and eval read their knobs through it
// instead of holding private config fields.
package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Kind identifies a parameter's UCI option type.
type Kind int

const (
	Check Kind = iota
	Spin
	String
	Button
)

// Listener is invoked, with the new value already applied, whenever a
// parameter changes. Button parameters invoke listeners with no
// meaningful value argument (always 0 / "").
type Listener func()

// Param is a single registry entry. Only the fields relevant to its
// Kind are meaningful: Spin uses Value/Min/Max/Default; Check uses
// BoolValue; String uses StrValue.
type Param struct {
	Name    string
	Kind    Kind
	Value   int
	Min     int
	Max     int
	Default int

	BoolValue    bool
	BoolDefault  bool
	StrValue     string
	StrDefault   string

	listeners []Listener
	mu        sync.RWMutex
}

// Registry is the process-wide parameter store. It is safe for
// concurrent reads; writes (Set*) must only happen while all search
// workers are quiesced. Configuration changes are not safe to apply
// during an active search.
type Registry struct {
	mu     sync.RWMutex
	params map[string]*Param
	order  []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{params: make(map[string]*Param)}
}

func (r *Registry) register(p *Param) *Param {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(p.Name)
	if _, exists := r.params[key]; !exists {
		r.order = append(r.order, p.Name)
	}
	r.params[key] = p
	return p
}

// NewSpin registers a bounded integer parameter and returns it.
func (r *Registry) NewSpin(name string, def, min, max int) *Param {
	return r.register(&Param{Name: name, Kind: Spin, Value: def, Default: def, Min: min, Max: max})
}

// NewCheck registers a boolean parameter.
func (r *Registry) NewCheck(name string, def bool) *Param {
	return r.register(&Param{Name: name, Kind: Check, BoolValue: def, BoolDefault: def})
}

// NewString registers a string parameter.
func (r *Registry) NewString(name string, def string) *Param {
	return r.register(&Param{Name: name, Kind: String, StrValue: def, StrDefault: def})
}

// NewButton registers an action parameter; Set on a Button invokes its
// listeners and carries no stored value.
func (r *Registry) NewButton(name string) *Param {
	return r.register(&Param{Name: name, Kind: Button})
}

// NewTable registers n individually-addressable Spin parameters named
// "<name>1".."<name>n", each backed by the corresponding slot of
// `backing` via a listener: a table-shaped parameter is an N-element
// array where each slot is individually registered and tied back to
// the array through its own listener.
func (r *Registry) NewTable(name string, backing []int, def, min, max int) []*Param {
	out := make([]*Param, len(backing))
	for i := range backing {
		idx := i
		backing[idx] = def
		p := r.NewSpin(fmt.Sprintf("%s%d", name, i+1), def, min, max)
		p.AddListener(func() { backing[idx] = p.Value })
		out[i] = p
	}
	return out
}

// NewTableWithDefaults is NewTable with a distinct default per slot,
// for tables whose tuned values form a curve rather than a flat constant.
func (r *Registry) NewTableWithDefaults(name string, backing []int, defaults []int, min, max int) []*Param {
	out := make([]*Param, len(backing))
	for i := range backing {
		idx := i
		def := defaults[i]
		backing[idx] = def
		p := r.NewSpin(fmt.Sprintf("%s%d", name, i+1), def, min, max)
		p.AddListener(func() { backing[idx] = p.Value })
		out[i] = p
	}
	return out
}

// Get returns the named parameter, or nil if unregistered.
func (r *Registry) Get(name string) *Param {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params[strings.ToLower(name)]
}

func (r *Registry) lookup(name string) *Param {
	return r.Get(name)
}

// Names returns every registered parameter name, sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// AddListener registers a callback invoked after every Set on p.
func (p *Param) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *Param) notify() {
	p.mu.RLock()
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.RUnlock()
	for _, l := range listeners {
		l()
	}
}

// SetInt sets a Spin parameter. A value outside [Min, Max] or a
// wrong-kind request is not clamped but rejected: it returns an error and
// the prior value is retained.
func (p *Param) SetInt(v int) error {
	if p.Kind != Spin {
		return fmt.Errorf("param %q is not a spin", p.Name)
	}
	if v < p.Min || v > p.Max {
		return fmt.Errorf("param %q: value %d out of range [%d,%d]", p.Name, v, p.Min, p.Max)
	}
	p.Value = v
	p.notify()
	return nil
}

// SetBool sets a Check parameter.
func (p *Param) SetBool(v bool) error {
	if p.Kind != Check {
		return fmt.Errorf("param %q is not a check", p.Name)
	}
	p.BoolValue = v
	p.notify()
	return nil
}

// SetString sets a String parameter.
func (p *Param) SetString(v string) error {
	if p.Kind != String {
		return fmt.Errorf("param %q is not a string", p.Name)
	}
	p.StrValue = v
	p.notify()
	return nil
}

// Press invokes a Button parameter's listeners.
func (p *Param) Press() error {
	if p.Kind != Button {
		return fmt.Errorf("param %q is not a button", p.Name)
	}
	p.notify()
	return nil
}

// SetFromUCI applies a raw "setoption value" string to p, parsing it
// according to p.Kind. Unknown/unparsable values are reported but the
// parameter is left untouched, matching the configuration-error policy.
func (r *Registry) SetFromUCI(name, value string) error {
	p := r.lookup(name)
	if p == nil {
		return fmt.Errorf("unknown option %q", name)
	}
	switch p.Kind {
	case Spin:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		return p.SetInt(n)
	case Check:
		return p.SetBool(strings.EqualFold(strings.TrimSpace(value), "true"))
	case String:
		return p.SetString(value)
	case Button:
		return p.Press()
	default:
		return fmt.Errorf("param %q: unknown kind", name)
	}
}
