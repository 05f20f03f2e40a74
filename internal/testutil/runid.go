package testutil

// ConstantRunID returns the same run id on every call.
//
// engine.FixedGenerator hands out ids in sequence and panics when they run
// out; ConstantRunID suits code that builds many engines for one logical
// run, such as repeated scenario executions compared for determinism.
//
// Thread-safety: stateless and safe for concurrent use.
type ConstantRunID struct {
	id string
}

// NewConstantRunID creates a generator for id. An empty id becomes
// "test-run-default".
func NewConstantRunID(id string) *ConstantRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &ConstantRunID{id: id}
}

// Generate returns the configured id.
func (g *ConstantRunID) Generate() string {
	return g.id
}
