package env

import (
	"sort"
	"sync"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

type Kind int

const (
	Plain Kind = iota
	Secret
	Sensitive
)

func (k Kind) String() string {
	switch k {
	case Secret:
		return "secret"
	case Sensitive:
		return "sensitive"
	default:
		return "plain"
	}
}

type Param struct {
	Value string
	Kind  Kind
}

// Slot turns the parameter into a template slot, masked unless plain.
func (p Param) Slot() template.Slot {
	switch p.Kind {
	case Secret:
		return template.Masked(masking.Secret(p.Value))
	case Sensitive:
		return template.Masked(masking.Sensitive(p.Value))
	default:
		return template.Value(p.Value)
	}
}

// Params is a named set of values safe for concurrent use.
type Params struct {
	mu     sync.RWMutex
	values map[string]Param
}

func NewParams() *Params {
	return &Params{values: make(map[string]Param)}
}

func (p *Params) set(name, value string, kind Kind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[name] = Param{Value: value, Kind: kind}
}

func (p *Params) Set(name, value string) {
	p.set(name, value, Plain)
}

func (p *Params) SetSecret(name, value string) {
	p.set(name, value, Secret)
}

func (p *Params) SetSensitive(name, value string) {
	p.set(name, value, Sensitive)
}

// SetAll stores plain values, stringified.
func (p *Params) SetAll(vars map[string]any) {
	for k, v := range vars {
		p.Set(k, template.Stringify(v))
	}
}

// SetAllSecret stores every value as a secret.
func (p *Params) SetAllSecret(vars map[string]string) {
	for k, v := range vars {
		p.SetSecret(k, v)
	}
}

// Reclassify changes the kind of already stored names. Unknown names are
// ignored.
func (p *Params) Reclassify(kind Kind, names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range names {
		if v, ok := p.values[name]; ok {
			v.Kind = kind
			p.values[name] = v
		}
	}
}

func (p *Params) Get(name string) (Param, bool) {
	if p == nil {
		return Param{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[name]
	return v, ok
}

func (p *Params) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.values))
	for name := range p.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
