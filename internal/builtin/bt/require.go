package bt

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/btport/internal/blackboard"
	"github.com/joeycumines/btport/internal/btcore"
)

// Require returns the loader for "btport:bt", bound to the given registries.
// Nil registries mean btcore.DefaultConverters and an empty manifest
// registry.
func Require(converters *btcore.ConverterRegistry, manifests *btcore.ManifestRegistry) require.ModuleLoader {
	if converters == nil {
		converters = btcore.DefaultConverters()
	}
	if manifests == nil {
		manifests = btcore.NewManifestRegistry(btcore.WithConverters(converters))
	}
	return func(runtime *goja.Runtime, module *goja.Object) {
		exports := module.Get("exports").(*goja.Object)

		_ = exports.Set("status", vocabulary(btcore.NodeStatuses()))
		_ = exports.Set("nodeType", vocabulary(btcore.NodeTypes()))
		_ = exports.Set("portDirection", vocabulary(btcore.PortDirections()))

		_ = exports.Set("parseStatus", func(text string) int {
			s, err := btcore.ParseNodeStatus(text)
			if err != nil {
				panic(runtime.NewGoError(err))
			}
			return int(s)
		})

		_ = exports.Set("statusName", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(statusArg(runtime, call.Argument(0)).String())
		})

		_ = exports.Set("isActive", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(statusArg(runtime, call.Argument(0)).IsActive())
		})

		_ = exports.Set("isCompleted", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(statusArg(runtime, call.Argument(0)).IsCompleted())
		})

		_ = exports.Set("convert", func(typeName, text string) any {
			v, err := converters.ConvertNamed(typeName, text)
			if err != nil {
				panic(runtime.NewGoError(err))
			}
			return v.Interface()
		})

		_ = exports.Set("toStr", func(typeName, text string) string {
			v, err := converters.ConvertNamed(typeName, text)
			if err != nil {
				panic(runtime.NewGoError(err))
			}
			s, err := converters.ToStr(v.Interface())
			if err != nil {
				panic(runtime.NewGoError(err))
			}
			return s
		})

		_ = exports.Set("types", converters.Types)

		_ = exports.Set("ports", func(id string) []map[string]any {
			m, ok := manifests.Get(id)
			if !ok {
				panic(runtime.NewTypeError("no node type registered as %q", id))
			}
			return portObjects(m.Ports)
		})

		_ = exports.Set("manifests", func() []map[string]any {
			list := manifests.List()
			out := make([]map[string]any, 0, len(list))
			for _, m := range list {
				out = append(out, map[string]any{
					"id":          m.RegistrationID,
					"type":        m.Type.String(),
					"description": m.Description,
					"ports":       portObjects(m.Ports),
				})
			}
			return out
		})

		_ = exports.Set("newBlackboard", func() goja.Value {
			return new(blackboard.Blackboard).ExposeToJS(runtime)
		})
	}
}

// Register installs the module under "btport:bt".
func Register(registry *require.Registry, converters *btcore.ConverterRegistry, manifests *btcore.ManifestRegistry) {
	registry.RegisterNativeModule("btport:bt", Require(converters, manifests))
}

func vocabulary[E interface {
	~int
	String() string
}](values []E) map[string]int {
	out := make(map[string]int, len(values))
	for _, v := range values {
		out[v.String()] = int(v)
	}
	return out
}

func statusArg(runtime *goja.Runtime, v goja.Value) btcore.NodeStatus {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		panic(runtime.NewTypeError("status argument is required"))
	}
	if s, ok := v.Export().(string); ok {
		status, err := btcore.ParseNodeStatus(s)
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		return status
	}
	n := v.ToInteger()
	for _, s := range btcore.NodeStatuses() {
		if int64(s) == n {
			return s
		}
	}
	panic(runtime.NewTypeError("unknown status %d", n))
}

func portObjects(ports btcore.PortsList) []map[string]any {
	out := make([]map[string]any, 0, len(ports))
	for _, name := range ports.Names() {
		info := ports[name]
		out = append(out, map[string]any{
			"name":          name,
			"direction":     info.Direction().String(),
			"type":          info.TypeName(),
			"stronglyTyped": info.IsStronglyTyped(),
			"description":   info.Description(),
			"default":       info.DefaultValueString(),
		})
	}
	return out
}
