package command

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/config"
)

var (
	ErrDuplicateCommand = errors.New("duplicate command")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownComponent = errors.New("unknown component action")
)

// Registry maps command names and component actions to descriptors.
// It is filled once at startup and only read afterwards.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Descriptor
	actions  map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Descriptor),
		actions:  make(map[string]*Descriptor),
	}
}

// Register adds d. Command names and component actions must be unique.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Name == "" {
		return errors.New("command name is empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("command %q has no handler", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, d.Name)
	}
	for action, c := range d.Components {
		if c.Handler == nil {
			return fmt.Errorf("command %q: component %q has no handler", d.Name, action)
		}
		if owner, exists := r.actions[action]; exists {
			return fmt.Errorf("%w: component action %q already owned by %s", ErrDuplicateCommand, action, owner.Name)
		}
	}

	r.commands[d.Name] = d
	for action := range d.Components {
		r.actions[action] = d
	}
	return nil
}

// MustRegister registers every descriptor and panics on the first error.
func (r *Registry) MustRegister(ds ...*Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return d, nil
}

// ResolveComponent returns the command owning action and its component handler.
func (r *Registry) ResolveComponent(action string) (*Descriptor, Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.actions[action]
	if !ok {
		return nil, Component{}, fmt.Errorf("%w: %s", ErrUnknownComponent, action)
	}
	return d, d.Components[action], nil
}

// All returns descriptors ordered by category weight, then name.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	list := make([]*Descriptor, 0, len(r.commands))
	for _, d := range r.commands {
		list = append(list, d)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		wi, wj := config.CategoryWeight(list[i].Category), config.CategoryWeight(list[j].Category)
		if wi != wj {
			return wi < wj
		}
		return list[i].Name < list[j].Name
	})
	return list
}

// Definitions returns the registration payload for every command, sorted by name.
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	all := r.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	defs := make([]*discordgo.ApplicationCommand, 0, len(all))
	for _, d := range all {
		defs = append(defs, d.SlashDefinition())
	}
	return defs
}
