package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrMissingRequiredOption = errors.New("missing required option")
	ErrOptionTypeMismatch    = errors.New("option type mismatch")
)

// OptionType is the value type of a command option.
type OptionType int

const (
	String OptionType = iota + 1
	Integer
	Boolean
	Number
)

func (t OptionType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

func (t OptionType) discord() discordgo.ApplicationCommandOptionType {
	switch t {
	case Integer:
		return discordgo.ApplicationCommandOptionInteger
	case Boolean:
		return discordgo.ApplicationCommandOptionBoolean
	case Number:
		return discordgo.ApplicationCommandOptionNumber
	}
	return discordgo.ApplicationCommandOptionString
}

// Choice is one allowed value of an option.
type Choice struct {
	Name  string
	Value any
}

// Option is one entry of a command's option schema.
type Option struct {
	Name        string
	Description string
	Type        OptionType
	Required    bool
	Choices     []Choice
}

func (o Option) definition() *discordgo.ApplicationCommandOption {
	def := &discordgo.ApplicationCommandOption{
		Type:        o.Type.discord(),
		Name:        o.Name,
		Description: o.Description,
		Required:    o.Required,
	}
	for _, c := range o.Choices {
		def.Choices = append(def.Choices, &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value})
	}
	return def
}

// Provided is a raw option as received in the interaction payload.
// Name may be empty, in which case the option binds by position.
type Provided struct {
	Name  string
	Value any
}

// Value is a validated option. Value holds string, int64, bool or float64.
type Value struct {
	Name  string
	Type  OptionType
	Value any
	Set   bool
}

// OptionError names the option that failed validation.
type OptionError struct {
	Option string
	Err    error
	Detail string
}

func (e *OptionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v %q: %s", e.Err, e.Option, e.Detail)
	}
	return fmt.Sprintf("%v %q", e.Err, e.Option)
}

func (e *OptionError) Unwrap() error { return e.Err }

// ValidateOptions matches provided options against d's schema and returns
// one typed Value per schema entry, in schema order. Options are matched by
// name; an unnamed option binds to the schema entry at its position.
// Options not in the schema are ignored.
func ValidateOptions(d *Descriptor, provided []Provided) ([]Value, error) {
	byName := make(map[string]any, len(provided))
	byPos := make(map[int]any)
	for i, p := range provided {
		if p.Name == "" {
			byPos[i] = p.Value
			continue
		}
		byName[p.Name] = p.Value
	}

	values := make([]Value, len(d.Options))
	for i, opt := range d.Options {
		raw, ok := byName[opt.Name]
		if !ok {
			raw, ok = byPos[i]
		}
		if !ok || raw == nil {
			if opt.Required {
				return nil, &OptionError{Option: opt.Name, Err: ErrMissingRequiredOption}
			}
			values[i] = Value{Name: opt.Name, Type: opt.Type}
			continue
		}

		v, err := coerce(opt.Type, raw)
		if err != nil {
			return nil, &OptionError{Option: opt.Name, Err: ErrOptionTypeMismatch, Detail: err.Error()}
		}
		if len(opt.Choices) > 0 && !hasChoice(opt, v) {
			return nil, &OptionError{Option: opt.Name, Err: ErrOptionTypeMismatch, Detail: fmt.Sprintf("%v is not an allowed choice", v)}
		}
		values[i] = Value{Name: opt.Name, Type: opt.Type, Value: v, Set: true}
	}
	return values, nil
}

func coerce(t OptionType, raw any) (any, error) {
	switch t {
	case String:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case Boolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case Integer:
		switch n := raw.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
				return int64(n), nil
			}
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}
	case Number:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, nil
			}
		}
	default:
		return nil, fmt.Errorf("unsupported option type %v", t)
	}
	return nil, fmt.Errorf("want %v, got %T", t, raw)
}

func hasChoice(opt Option, v any) bool {
	for _, c := range opt.Choices {
		cv, err := coerce(opt.Type, c.Value)
		if err == nil && cv == v {
			return true
		}
	}
	return false
}
