package transform

import (
	"fmt"
	"strings"

	"github.com/veildata/veil/entity"
)

// Pipeline routes each field of a record through the first data path matching
// its name and applies that path's transformer chain. A Pipeline holds only
// immutable configuration after construction, keeps no cross-record state and
// is safe for concurrent use across goroutines.
type Pipeline struct {
	id    string
	paths []DataPath
}

// NewPipeline creates a Pipeline from an ordered list of data paths. Routing
// is first-match-wins in declaration order, so more specific patterns must
// come before general ones. Fields matching no path are omitted from the
// output; a trailing catch-all path ("*", no transforms) is the idiomatic way
// to pass everything else through.
func NewPipeline(paths ...DataPath) *Pipeline {
	return &Pipeline{paths: paths}
}

// Id returns the pipeline ID (namespace + suffix) of a spec-built pipeline,
// or the empty string for pipelines assembled directly from data paths.
func (p *Pipeline) Id() string {
	return p.id
}

// NewPipelineFromSpec builds the declarative spec form into a live Pipeline.
func NewPipelineFromSpec(spec *entity.Spec) (*Pipeline, error) {
	paths := make([]DataPath, 0, len(spec.DataPaths))
	for _, dps := range spec.DataPaths {
		configs := make([]Config, 0, len(dps.Transforms))
		for _, ts := range dps.Transforms {
			cfg, err := configFromSpec(ts)
			if err != nil {
				return nil, err
			}
			configs = append(configs, cfg)
		}
		dp, err := NewDataPath(dps.Input, dps.Output, configs...)
		if err != nil {
			return nil, err
		}
		paths = append(paths, dp)
	}
	p := NewPipeline(paths...)
	p.id = spec.Id()
	return p, nil
}

// route selects one data path per record field, first-match-wins over the
// declared path order. Fields matching no path are absent from the result.
func (p *Pipeline) route(fieldNames []string) map[string]*DataPath {
	routes := make(map[string]*DataPath, len(fieldNames))
	unrouted := fieldNames
	for i := range p.paths {
		var remaining []string
		for _, field := range unrouted {
			if p.paths[i].Matches(field) {
				routes[field] = &p.paths[i]
			} else {
				remaining = append(remaining, field)
			}
		}
		unrouted = remaining
		if len(unrouted) == 0 {
			break
		}
	}
	return routes
}

// recordView resolves field lookups for units that reference other fields,
// preferring already transformed values over source values.
type recordView struct {
	src *entity.Record
	out *entity.Record
}

func (v recordView) Lookup(field string) (any, bool) {
	if value, ok := v.out.Get(field); ok {
		return value, true
	}
	return v.src.Get(field)
}

// Transform routes each field of the record through its matched data path and
// returns the assembled output record. Field order follows the input record;
// renamed fields keep their original position, dropped and unmatched fields
// are omitted. meta may be nil when no labeling metadata exists.
//
// Unit failures (e.g. bucketing a non-numeric value) abort the call and
// surface the failing field in the error; the pipeline neither retries nor
// skips internally, leaving batch policy to the caller.
func (p *Pipeline) Transform(record *entity.Record, meta entity.RecordMeta) (*entity.Record, error) {
	routes := p.route(record.FieldNames())
	out := entity.NewRecord()
	view := recordView{src: record, out: out}

	for _, f := range record.Fields() {
		dp, ok := routes[f.Name]
		if !ok {
			continue
		}
		fc := FieldContext{Field: f.Name, Meta: meta.Field(f.Name), Record: view}
		value, keep, err := applyChain(dp.Units(), f.Value, fc)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if keep {
			out.Set(dp.outputName(f.Name), value)
		}
	}
	return out, nil
}

func applyChain(units []Unit, value any, fc FieldContext) (any, bool, error) {
	for _, unit := range units {
		if !unit.Applicable(fc.Meta) {
			continue
		}
		next, keep, err := unit.Apply(value, fc)
		if err != nil {
			return nil, false, err
		}
		if !keep {
			return nil, false, nil
		}
		value = next
	}
	return value, true, nil
}

// Restore reverses a previously transformed record by applying each matched
// data path's units in reverse order through their inverses. Fields are
// matched against path output names first, falling back to input patterns,
// and renamed back to their input field name where the path declares one.
// Fails with ErrNotReversible if any unit in a matched chain has no inverse.
func (p *Pipeline) Restore(record *entity.Record) (*entity.Record, error) {
	out := entity.NewRecord()
	view := recordView{src: record, out: out}

	for _, f := range record.Fields() {
		dp, outputName := p.restoreRoute(f.Name)
		if dp == nil {
			continue
		}
		fc := FieldContext{Field: f.Name, Record: view}
		value := f.Value
		units := dp.Units()
		for i := len(units) - 1; i >= 0; i-- {
			rev, ok := units[i].(ReversibleUnit)
			if !ok {
				return nil, fmt.Errorf("field %q: %w (%s)", f.Name, ErrNotReversible, units[i].Kind())
			}
			restored, err := rev.Restore(value, fc)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			value = restored
		}
		out.Set(outputName, value)
	}
	return out, nil
}

// restoreRoute finds the data path that produced a transformed field: first
// the path whose declared output name equals the field, then first-match-wins
// on input patterns as in the forward direction.
func (p *Pipeline) restoreRoute(field string) (*DataPath, string) {
	for i := range p.paths {
		if p.paths[i].Output == field {
			// Rename back to the input field, unless the input is a pattern.
			if !strings.Contains(p.paths[i].Input, "*") {
				return &p.paths[i], p.paths[i].Input
			}
			return &p.paths[i], field
		}
	}
	for i := range p.paths {
		if p.paths[i].Matches(field) {
			return &p.paths[i], field
		}
	}
	return nil, ""
}
