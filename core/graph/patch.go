package graph

import (
	"encoding/json"
	"fmt"
)

// Patch is a JSON object describing entity fields.
// It is used both as a partial update and as a whole-entity snapshot.
type Patch map[string]any

// ToPatch converts any JSON-serializable value into a Patch.
func ToPatch(v any) (Patch, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidEntity, err)
	}
	return p, nil
}

// Clone returns a deep copy of the patch.
func (p Patch) Clone() Patch {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		out := make(Patch, len(p))
		for k, v := range p {
			out[k] = v
		}
		return out
	}
	var out Patch
	_ = json.Unmarshal(data, &out)
	return out
}

// Pick returns the current values of the given keys. Keys absent from p are
// reported as nil, so merging the result restores exactly those fields.
func (p Patch) Pick(keys ...string) Patch {
	out := make(Patch, len(keys))
	for _, k := range keys {
		if v, ok := p[k]; ok {
			out[k] = v
		} else {
			out[k] = nil
		}
	}
	return out.Clone()
}

// Keys returns the keys of p in no particular order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// Align extends two whole-entity snapshots to the union of their keys. A key
// missing on one side is recorded there as nil, which makes merging either
// side onto the entity reproduce that snapshot exactly.
func Align(before, after Patch) (Patch, Patch) {
	b, a := before.Clone(), after.Clone()
	if b == nil {
		b = Patch{}
	}
	if a == nil {
		a = Patch{}
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			b[k] = nil
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			a[k] = nil
		}
	}
	return b, a
}

// merge overlays patch onto base in place. Nil values delete the key and the
// id key is never touched.
func merge(base, patch Patch) Patch {
	if base == nil {
		base = Patch{}
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		if v == nil {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	return base
}
