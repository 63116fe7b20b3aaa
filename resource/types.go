// Package resource holds the attribute model shared by the reconcilers: value
// normalization, the canonical comparison form and the managed-subset diff.
package resource

type Value = any

// AttributeSet maps management model attribute names to values. A desired
// set names the attributes the caller manages; every other attribute the
// server reports is left alone.
type AttributeSet map[string]Value

// Diff is the before/after report produced in check mode and on update.
type Diff struct {
	Before Value `json:"before" yaml:"before"`
	After  Value `json:"after" yaml:"after"`
}

func (a AttributeSet) Keys() []string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	return keys
}
