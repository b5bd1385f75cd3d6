package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

// Handler receives the raw JSON arguments the model produced.
type Handler func(ctx context.Context, arguments string) (string, error)

type Definition struct {
	Name    string
	Desc    string
	Params  map[string]*schema.ParameterInfo
	Handler Handler
}

func (d Definition) Info() *schema.ToolInfo {
	info := &schema.ToolInfo{
		Name: d.Name,
		Desc: d.Desc,
	}
	if len(d.Params) > 0 {
		info.ParamsOneOf = schema.NewParamsOneOfByParams(d.Params)
	}
	return info
}

// Registry is built once and read-only afterwards.
type Registry struct {
	defs  map[string]Definition
	order []string
}

var _ contractx.ToolGateway = (*Registry)(nil)

func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
		}
		if d.Handler == nil {
			return nil, fmt.Errorf("%w: tool=%s has no handler", contractx.ErrValidation, name)
		}
		if _, dup := r.defs[name]; dup {
			return nil, fmt.Errorf("%w: tool=%s registered twice", contractx.ErrValidation, name)
		}
		d.Name = name
		r.defs[name] = d
		r.order = append(r.order, name)
	}
	return r, nil
}

func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Infos returns the advertised schemas in registration order.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.defs[name].Info())
	}
	return infos
}

// Dispatch runs the named tool. Unknown tools, bad arguments, handler errors
// and handler panics all come back as text the model can read.
func (r *Registry) Dispatch(ctx context.Context, name string, arguments string) (out string) {
	def, ok := r.defs[strings.TrimSpace(name)]
	if !ok {
		log.Warn().Str("tool", name).Msg("model requested unknown tool")
		return fmt.Sprintf("❌ Tool '%s' not found.", name)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("tool", def.Name).Interface("panic", p).Msg("tool handler panicked")
			out = toolError(def.Name, fmt.Errorf("%v", p))
		}
	}()

	result, err := def.Handler(ctx, arguments)
	if err != nil {
		log.Debug().Err(err).Str("tool", def.Name).Msg("tool call failed")
		return toolError(def.Name, err)
	}
	return result
}

func toolError(name string, err error) string {
	return fmt.Sprintf("❌ Error using %s: %v", name, err)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Typed adapts a handler over a concrete argument struct. Arguments are
// decoded from JSON and checked against the struct's validate tags before fn
// runs.
func Typed[A any](fn func(ctx context.Context, args A) (string, error)) Handler {
	return func(ctx context.Context, arguments string) (string, error) {
		var args A
		raw := strings.TrimSpace(arguments)
		if raw != "" && raw != "null" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return "", fmt.Errorf("%w: invalid arguments: %v", contractx.ErrValidation, err)
			}
		}
		if err := validate.Struct(args); err != nil {
			return "", fmt.Errorf("%w: %s", contractx.ErrValidation, describeValidation(err))
		}
		return fn(ctx, args)
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
