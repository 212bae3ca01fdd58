package discretise

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/frame"
)

// Compile-time check
var _ featgo.Transformer = (*IncreasingWidth)(nil)

const transformerName = "increasing-width"

// Options contains options for the IncreasingWidth discretiser.
type Options struct {
	// Variables selects the numeric columns to discretise. If nil, all
	// numeric columns are selected at fit time.
	Variables []string

	// Bins is the number of intervals per variable.
	Bins int

	// ReturnObject emits the bin indices as a string column instead of an
	// int column, for consumers that treat the result as categorical.
	ReturnObject bool

	// ReturnBoundaries emits interval labels such as "(2.5, 7.1]" instead
	// of bin indices. Takes precedence over ReturnObject.
	ReturnBoundaries bool

	// Logger is the logger for fit and transform operations.
	Logger *featgo.Logger

	// Metrics collects operational metrics.
	Metrics featgo.MetricsCollector
}

// DefaultOptions contains the default options for the discretiser.
var DefaultOptions = Options{
	Bins: 10,
}

// IncreasingWidth sorts numeric variables into intervals whose width grows
// geometrically, which suits skewed long-tailed distributions: narrow bins
// resolve the dense low range while wide bins cover the sparse tail.
//
// The learned state is replaced atomically on each successful Fit and never
// mutated by Transform, so a fitted discretiser is safe for concurrent
// Transform calls.
type IncreasingWidth struct {
	opts Options

	vars     []string
	binEdges map[string][]float64
	schema   frame.Schema
	fitted   bool
}

// New creates a new IncreasingWidth discretiser.
func New(optFns ...func(o *Options)) (*IncreasingWidth, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = featgo.NoopLogger()
	}

	if opts.Metrics == nil {
		opts.Metrics = featgo.NoopMetricsCollector{}
	}

	if opts.Bins < 1 {
		return nil, &featgo.ErrInvalidConfig{Param: "bins", Value: opts.Bins, Constraint: "an integer >= 1"}
	}

	if err := validateVariables(opts.Variables); err != nil {
		return nil, err
	}

	return &IncreasingWidth{opts: opts}, nil
}

func validateVariables(vars []string) error {
	if vars == nil {
		return nil
	}

	if len(vars) == 0 {
		return &featgo.ErrInvalidConfig{Param: "variables", Value: vars, Constraint: "nil or a non-empty list"}
	}

	seen := make(map[string]bool, len(vars))
	for _, name := range vars {
		if seen[name] {
			return &featgo.ErrInvalidConfig{Param: "variables", Value: name, Constraint: "unique variable names"}
		}
		seen[name] = true
	}

	return nil
}

// Fit learns the bin edges for every selected variable. Previously learned
// state is discarded only if fitting succeeds.
func (t *IncreasingWidth) Fit(f *frame.Frame) error {
	start := time.Now()

	err := t.fit(f)

	t.opts.Metrics.RecordFit(time.Since(start), err)
	t.opts.Logger.LogFit(context.Background(), transformerName, len(t.vars), numRows(f), err)

	return err
}

func (t *IncreasingWidth) fit(f *frame.Frame) error {
	if err := frame.Check(f); err != nil {
		return err
	}

	vars, err := resolveNumeric(f, t.opts.Variables)
	if err != nil {
		return err
	}

	if err := frame.CheckNoMissing(f, vars); err != nil {
		return err
	}

	binEdges := make(map[string][]float64, len(vars))
	for _, name := range vars {
		col, _ := f.Column(name)

		edges, err := Boundaries(col.Floats(), t.opts.Bins)
		if err != nil {
			return err
		}

		binEdges[name] = edges
	}

	t.vars = vars
	t.binEdges = binEdges
	t.schema = f.Schema()
	t.fitted = true

	return nil
}

func resolveNumeric(f *frame.Frame, requested []string) ([]string, error) {
	if requested == nil {
		vars := frame.NumericNames(f)
		if len(vars) == 0 {
			return nil, fmt.Errorf("%w: frame has no numeric variables", frame.ErrInvalidData)
		}
		return vars, nil
	}

	if err := frame.CheckNumeric(f, requested); err != nil {
		return nil, err
	}

	return requested, nil
}

// Transform replaces every fitted variable with its bin assignment. The
// remaining columns are passed through unchanged and the column order of the
// fit frame is preserved.
func (t *IncreasingWidth) Transform(f *frame.Frame) (*frame.Frame, error) {
	start := time.Now()

	out, err := t.transform(f)

	t.opts.Metrics.RecordTransform(numRows(f), time.Since(start), err)
	t.opts.Logger.LogTransform(context.Background(), transformerName, numRows(f), numCols(out), err)

	return out, err
}

func (t *IncreasingWidth) transform(f *frame.Frame) (*frame.Frame, error) {
	if !t.fitted {
		return nil, featgo.ErrNotFitted
	}

	if err := frame.Check(f); err != nil {
		return nil, err
	}

	aligned, err := frame.Align(f, t.schema.Names())
	if err != nil {
		return nil, err
	}

	if err := frame.CheckNumeric(aligned, t.vars); err != nil {
		return nil, err
	}

	if err := frame.CheckNoMissing(aligned, t.vars); err != nil {
		return nil, err
	}

	out, _ := frame.New()
	for i := 0; i < aligned.NumCols(); i++ {
		col := aligned.ColumnAt(i)

		edges, ok := t.binEdges[col.Name()]
		if !ok {
			if err := out.AppendColumn(col.Clone()); err != nil {
				return nil, err
			}
			continue
		}

		if err := out.AppendColumn(t.binColumn(col, edges)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (t *IncreasingWidth) binColumn(col *frame.Series, edges []float64) *frame.Series {
	n := col.Len()

	switch {
	case t.opts.ReturnBoundaries:
		s := frame.NewSeries(col.Name(), frame.KindString)
		for i := 0; i < n; i++ {
			idx := binIndex(edges, col.FloatAt(i))
			s.AppendString(intervalLabel(edges[idx], edges[idx+1]))
		}
		return s
	case t.opts.ReturnObject:
		s := frame.NewSeries(col.Name(), frame.KindString)
		for i := 0; i < n; i++ {
			s.AppendString(strconv.Itoa(binIndex(edges, col.FloatAt(i))))
		}
		return s
	default:
		s := frame.NewSeries(col.Name(), frame.KindInt)
		for i := 0; i < n; i++ {
			s.AppendInt(int64(binIndex(edges, col.FloatAt(i))))
		}
		return s
	}
}

// FitTransform fits on the frame and transforms it in one call.
func (t *IncreasingWidth) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	if err := t.Fit(f); err != nil {
		return nil, err
	}
	return t.Transform(f)
}

// Fitted reports whether the discretiser holds learned state.
func (t *IncreasingWidth) Fitted() bool { return t.fitted }

// Variables returns the variables resolved at fit time.
func (t *IncreasingWidth) Variables() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// BinEdges returns a copy of the learned edges per variable, including the
// infinite outer edges.
func (t *IncreasingWidth) BinEdges() map[string][]float64 {
	out := make(map[string][]float64, len(t.binEdges))
	for name, edges := range t.binEdges {
		cp := make([]float64, len(edges))
		copy(cp, edges)
		out[name] = cp
	}
	return out
}

func numRows(f *frame.Frame) int {
	if f == nil {
		return 0
	}
	return f.NumRows()
}

func numCols(f *frame.Frame) int {
	if f == nil {
		return 0
	}
	return f.NumCols()
}

// State is the serializable fitted state of the discretiser.
//
// The infinite outer edges are implied and not stored, so the state stays
// JSON friendly; InnerEdges holds only the finite interior edges.
type State struct {
	Variables        []string             `json:"variables"`
	Bins             int                  `json:"bins"`
	ReturnObject     bool                 `json:"return_object"`
	ReturnBoundaries bool                 `json:"return_boundaries"`
	InnerEdges       map[string][]float64 `json:"inner_edges"`
	Schema           frame.Schema         `json:"schema"`
}

// State captures the fitted state for persistence.
func (t *IncreasingWidth) State() (*State, error) {
	if !t.fitted {
		return nil, featgo.ErrNotFitted
	}

	inner := make(map[string][]float64, len(t.binEdges))
	for name, edges := range t.binEdges {
		cp := make([]float64, len(edges)-2)
		copy(cp, edges[1:len(edges)-1])
		inner[name] = cp
	}

	state := &State{
		Variables:        t.Variables(),
		Bins:             t.opts.Bins,
		ReturnObject:     t.opts.ReturnObject,
		ReturnBoundaries: t.opts.ReturnBoundaries,
		InnerEdges:       inner,
		Schema:           append(frame.Schema(nil), t.schema...),
	}

	return state, nil
}

// Restore creates a fitted discretiser from persisted state. Options such as
// Logger and Metrics can be re-attached via optFns; configuration recorded in
// the state takes precedence.
func Restore(state *State, optFns ...func(o *Options)) (*IncreasingWidth, error) {
	if state == nil {
		return nil, &featgo.ErrInvalidConfig{Param: "state", Value: nil, Constraint: "a non-nil state"}
	}

	if len(state.Variables) == 0 {
		return nil, &featgo.ErrInvalidConfig{Param: "state", Value: state.Variables, Constraint: "at least one fitted variable"}
	}

	t, err := New(append(optFns, func(o *Options) {
		o.Variables = state.Variables
		o.Bins = state.Bins
		o.ReturnObject = state.ReturnObject
		o.ReturnBoundaries = state.ReturnBoundaries
	})...)
	if err != nil {
		return nil, err
	}

	binEdges := make(map[string][]float64, len(state.InnerEdges))
	for _, name := range state.Variables {
		inner, ok := state.InnerEdges[name]
		if !ok {
			return nil, &featgo.ErrInvalidConfig{Param: "state", Value: name, Constraint: "inner edges for every fitted variable"}
		}

		edges := make([]float64, 0, len(inner)+2)
		edges = append(edges, math.Inf(-1))
		edges = append(edges, inner...)
		edges = append(edges, math.Inf(1))
		binEdges[name] = edges
	}

	t.vars = append([]string(nil), state.Variables...)
	t.binEdges = binEdges
	t.schema = append(frame.Schema(nil), state.Schema...)
	t.fitted = true

	return t, nil
}
