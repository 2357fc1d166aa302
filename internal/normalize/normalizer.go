// Package normalize maps each dataset's heterogeneous column names onto
// the canonical attribute set. The transform is pure: it never raises,
// and a value that fails semantic coercion leaves the field absent while
// the record survives.
package normalize

import (
	"aceintel/adapters/coercer"
	"aceintel/domain/core"
	"aceintel/domain/record"
)

// Normalizer produces exactly one NormalizedRecord per RawRecord
type Normalizer struct {
	mappings map[record.SourceKind]Mapping
	coercer  *coercer.Coercer
}

// New creates a normalizer with the given mapping table; nil means defaults
func New(mappings map[record.SourceKind]Mapping) *Normalizer {
	if mappings == nil {
		mappings = DefaultMappings()
	}
	return &Normalizer{
		mappings: mappings,
		coercer:  coercer.New(),
	}
}

// Mapping returns the mapping table for a kind (defaults when unknown)
func (n *Normalizer) Mapping(kind record.SourceKind) Mapping {
	if m, ok := n.mappings[kind]; ok {
		return m
	}
	return Mapping{}
}

// Normalize maps one raw record onto the canonical attributes. The
// source kind is always present in the output; everything else is
// optional since source schemas vary.
func (n *Normalizer) Normalize(raw record.RawRecord) record.NormalizedRecord {
	m := n.Mapping(raw.Kind)
	out := record.NormalizedRecord{Kind: raw.Kind}

	if col, ok := resolve(m.RouteID, raw.Columns); ok {
		if s := raw.Fields[col]; s != "" {
			route := core.RouteID(s)
			out.RouteID = &route
		}
	}

	if col, ok := resolve(m.Timestamp, raw.Columns); ok {
		// Bad date text leaves the field nil; the record survives.
		if v, ok := n.coercer.TryTimestamp(raw.Fields[col]); ok {
			t := v.AsTime()
			out.Timestamp = &t
		}
	}

	if col, ok := resolve(m.Zone, raw.Columns); ok {
		if s := raw.Fields[col]; s != "" {
			out.Zone = &s
		}
	}

	if col, ok := resolve(m.Direction, raw.Columns); ok {
		if s := raw.Fields[col]; s != "" {
			out.Direction = &s
		}
	}

	for key, candidates := range m.Metrics {
		col, ok := resolve(candidates, raw.Columns)
		if !ok {
			continue
		}
		if v, ok := n.coercer.TryNumeric(raw.Fields[col]); ok {
			if out.Metrics == nil {
				out.Metrics = make(map[core.MetricKey]float64)
			}
			out.Metrics[key] = v.AsFloat64()
		}
	}

	return out
}

// NormalizeBatch maps a whole loader batch, preserving input order
func (n *Normalizer) NormalizeBatch(batch record.Batch) []record.NormalizedRecord {
	out := make([]record.NormalizedRecord, 0, len(batch.Records))
	for _, raw := range batch.Records {
		out = append(out, n.Normalize(raw))
	}
	return out
}
