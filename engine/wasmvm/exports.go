package wasmvm

import (
	"sort"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/jvm-runtime/errors"
)

// Export describes one exported function of a registered class.
type Export struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Exports lists the exported functions of the named class, sorted by
// name.
func (e *Engine) Exports(class string) ([]Export, error) {
	cls, ok := e.classes.Get(class)
	if !ok {
		return nil, errors.ClassNotFound(class)
	}
	defs := cls.compiled.ExportedFunctions()
	out := make([]Export, 0, len(defs))
	for name, def := range defs {
		out = append(out, Export{
			Name:    name,
			Params:  def.ParamTypes(),
			Results: def.ResultTypes(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
