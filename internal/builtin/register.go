// Package builtin wires the native JavaScript modules into a goja require
// registry.
package builtin

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	btmod "github.com/joeycumines/btport/internal/builtin/bt"
	"github.com/joeycumines/btport/internal/btcore"
)

// Register registers all native Go modules with the provided registry.
// Modules are available under the "btport:" prefix.
func Register(registry *require.Registry, converters *btcore.ConverterRegistry, manifests *btcore.ManifestRegistry) {
	btmod.Register(registry, converters, manifests)
}

// NewRuntime returns a goja runtime with require() enabled and every native
// module registered.
func NewRuntime(converters *btcore.ConverterRegistry, manifests *btcore.ManifestRegistry) *goja.Runtime {
	vm := goja.New()
	registry := require.NewRegistry()
	Register(registry, converters, manifests)
	registry.Enable(vm)
	return vm
}
