// Package encode provides transformers that replace categorical variables
// with numeric representations learned from training data.
package encode

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/frame"
	"github.com/hupe1980/featgo/similarity"
)

// Compile-time check
var _ featgo.Transformer = (*StringSimilarity)(nil)

const transformerName = "string-similarity"

// Options contains options for the StringSimilarity encoder.
type Options struct {
	// Variables selects the columns to encode. If nil, all string columns
	// are selected at fit time (all columns when IgnoreFormat is set).
	Variables []string

	// TopCategories bounds the vocabulary per variable to the most frequent
	// values. Zero keeps every distinct value.
	TopCategories int

	// Missing is the null handling policy.
	Missing MissingPolicy

	// IgnoreFormat allows non-string variables to be encoded using their
	// canonical string rendering.
	IgnoreFormat bool

	// Metric selects the built-in similarity scorer.
	Metric similarity.Metric

	// Scorer overrides Metric with a custom similarity function. A custom
	// scorer is not recorded in persisted state; re-attach it after Restore.
	Scorer similarity.Func

	// Logger is the logger for fit and transform operations.
	Logger *featgo.Logger

	// Metrics collects operational metrics.
	Metrics featgo.MetricsCollector
}

// DefaultOptions contains the default options for the encoder.
var DefaultOptions = Options{
	Metric: similarity.MetricQuickRatio,
}

// StringSimilarity replaces each encoded variable with a block of float
// columns holding the similarity of the observed value to every entry of a
// bounded, frequency-ranked vocabulary learned at fit time.
//
// Unlike one-hot encoding, unseen values still produce informative gradual
// scores, and the output width stays bounded by TopCategories.
//
// The learned state is replaced atomically on each successful Fit and never
// mutated by Transform, so a fitted encoder is safe for concurrent Transform
// calls.
type StringSimilarity struct {
	opts   Options
	scorer similarity.Func

	vars   []string
	vocab  map[string][]string
	schema frame.Schema
	fitted bool
}

// New creates a new StringSimilarity encoder.
func New(optFns ...func(o *Options)) (*StringSimilarity, error) {
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

	if opts.TopCategories < 0 {
		return nil, &featgo.ErrInvalidConfig{Param: "top categories", Value: opts.TopCategories, Constraint: "zero for all, or a positive bound"}
	}

	switch opts.Missing {
	case MissingImpute, MissingError, MissingIgnore:
	default:
		return nil, &featgo.ErrInvalidConfig{Param: "missing policy", Value: opts.Missing, Constraint: "impute, error or ignore"}
	}

	if err := validateVariables(opts.Variables); err != nil {
		return nil, err
	}

	scorer := opts.Scorer
	if scorer == nil {
		var err error

		scorer, err = similarity.Provider(opts.Metric)
		if err != nil {
			return nil, &featgo.ErrInvalidConfig{Param: "metric", Value: opts.Metric, Constraint: "a supported similarity metric"}
		}
	}

	return &StringSimilarity{opts: opts, scorer: scorer}, nil
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

// Fit learns the vocabulary for every selected variable. Previously learned
// state is discarded only if fitting succeeds.
func (t *StringSimilarity) Fit(f *frame.Frame) error {
	start := time.Now()

	err := t.fit(f)

	t.opts.Metrics.RecordFit(time.Since(start), err)
	t.opts.Logger.LogFit(context.Background(), transformerName, len(t.vars), numRows(f), err)

	return err
}

func (t *StringSimilarity) fit(f *frame.Frame) error {
	if err := frame.Check(f); err != nil {
		return err
	}

	vars, err := t.resolveVariables(f)
	if err != nil {
		return err
	}

	if t.opts.Missing == MissingError {
		if err := frame.CheckNoMissing(f, vars); err != nil {
			return err
		}
	}

	vocab := make(map[string][]string, len(vars))
	for _, name := range vars {
		col, _ := f.Column(name)
		values, nulls := stringValues(col)

		prepared := make([]string, 0, len(values))
		for i, v := range values {
			if nulls[i] {
				if t.opts.Missing == MissingImpute {
					prepared = append(prepared, "")
				}
				continue
			}
			prepared = append(prepared, v)
		}

		vocab[name] = RankCategories(prepared, t.opts.TopCategories)
	}

	t.vars = vars
	t.vocab = vocab
	t.schema = f.Schema()
	t.fitted = true

	return nil
}

func (t *StringSimilarity) resolveVariables(f *frame.Frame) ([]string, error) {
	if t.opts.Variables == nil {
		if t.opts.IgnoreFormat {
			return f.Names(), nil
		}

		vars := frame.StringNames(f)
		if len(vars) == 0 {
			return nil, fmt.Errorf("%w: frame has no string variables", frame.ErrInvalidData)
		}
		return vars, nil
	}

	if t.opts.IgnoreFormat {
		if err := frame.CheckVariables(f, t.opts.Variables); err != nil {
			return nil, err
		}
		return t.opts.Variables, nil
	}

	if err := frame.CheckString(f, t.opts.Variables); err != nil {
		return nil, err
	}

	return t.opts.Variables, nil
}

// Transform drops every encoded variable and appends its similarity block at
// the end of the frame. The block columns are named "<variable>_<category>",
// with "<variable>_nan" for the empty string category. Non-encoded columns
// keep the column order of the fit frame.
func (t *StringSimilarity) Transform(f *frame.Frame) (*frame.Frame, error) {
	start := time.Now()

	out, err := t.transform(f)

	t.opts.Metrics.RecordTransform(numRows(f), time.Since(start), err)
	t.opts.Logger.LogTransform(context.Background(), transformerName, numRows(f), numCols(out), err)

	return out, err
}

func (t *StringSimilarity) transform(f *frame.Frame) (*frame.Frame, error) {
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

	if !t.opts.IgnoreFormat {
		if err := frame.CheckString(aligned, t.vars); err != nil {
			return nil, err
		}
	}

	if t.opts.Missing == MissingError {
		if err := frame.CheckNoMissing(aligned, t.vars); err != nil {
			return nil, err
		}
	}

	encoded := make(map[string]bool, len(t.vars))
	for _, name := range t.vars {
		encoded[name] = true
	}

	out, _ := frame.New()
	for i := 0; i < aligned.NumCols(); i++ {
		col := aligned.ColumnAt(i)
		if encoded[col.Name()] {
			continue
		}

		if err := out.AppendColumn(col.Clone()); err != nil {
			return nil, err
		}
	}

	for _, name := range t.vars {
		col, _ := aligned.Column(name)

		for _, s := range t.encodeColumn(col) {
			if err := out.AppendColumn(s); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// encodeColumn projects one variable onto its vocabulary and returns the
// similarity block as float series. An empty vocabulary yields no columns.
func (t *StringSimilarity) encodeColumn(col *frame.Series) []*frame.Series {
	vocab := t.vocab[col.Name()]
	if len(vocab) == 0 {
		return nil
	}

	values, nulls := stringValues(col)

	if t.opts.Missing == MissingImpute {
		for i := range nulls {
			if nulls[i] {
				values[i] = ""
				nulls[i] = false
			}
		}
	}

	dense := newProjector(vocab, t.scorer).project(values, nulls)

	block := make([]*frame.Series, len(vocab))
	for j, cat := range vocab {
		s := frame.NewSeries(blockName(col.Name(), cat), frame.KindFloat)
		for i := range values {
			s.AppendFloat(dense.At(i, j))
		}
		block[j] = s
	}

	return block
}

// FitTransform fits on the frame and transforms it in one call.
func (t *StringSimilarity) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	if err := t.Fit(f); err != nil {
		return nil, err
	}
	return t.Transform(f)
}

// Fitted reports whether the encoder holds learned state.
func (t *StringSimilarity) Fitted() bool { return t.fitted }

// Variables returns the variables resolved at fit time.
func (t *StringSimilarity) Variables() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// Vocabulary returns a copy of the learned vocabulary per variable.
func (t *StringSimilarity) Vocabulary() map[string][]string {
	out := make(map[string][]string, len(t.vocab))
	for name, cats := range t.vocab {
		out[name] = append([]string(nil), cats...)
	}
	return out
}

// FeatureNamesOut returns the output column names. With nil input it returns
// the full transformed layout: non-encoded columns in fit order followed by
// every similarity block. With a subset of encoded variables it returns only
// their block names, in the given order.
func (t *StringSimilarity) FeatureNamesOut(inputFeatures []string) ([]string, error) {
	if !t.fitted {
		return nil, featgo.ErrNotFitted
	}

	if inputFeatures == nil {
		var names []string
		encoded := make(map[string]bool, len(t.vars))
		for _, name := range t.vars {
			encoded[name] = true
		}

		for _, fld := range t.schema {
			if !encoded[fld.Name] {
				names = append(names, fld.Name)
			}
		}

		for _, name := range t.vars {
			names = append(names, t.blockNames(name)...)
		}

		return names, nil
	}

	fitted := make(map[string]bool, len(t.vars))
	for _, name := range t.vars {
		fitted[name] = true
	}

	var names []string
	for _, name := range inputFeatures {
		if !fitted[name] {
			return nil, &featgo.ErrInvalidConfig{Param: "input features", Value: name, Constraint: "a fitted encoded variable"}
		}
		names = append(names, t.blockNames(name)...)
	}

	return names, nil
}

func (t *StringSimilarity) blockNames(variable string) []string {
	vocab := t.vocab[variable]
	names := make([]string, len(vocab))
	for j, cat := range vocab {
		names[j] = blockName(variable, cat)
	}
	return names
}

// InverseTransform is not supported: similarity projection is lossy and has
// no inverse mapping.
func (t *StringSimilarity) InverseTransform(f *frame.Frame) (*frame.Frame, error) {
	return nil, &featgo.ErrUnsupportedOperation{Op: "inverse transform"}
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

// State is the serializable fitted state of the encoder.
//
// A custom Scorer is not recorded; Metric names the built-in scorer used to
// restore the encoder.
type State struct {
	Variables     []string            `json:"variables"`
	TopCategories int                 `json:"top_categories"`
	Missing       string              `json:"missing"`
	IgnoreFormat  bool                `json:"ignore_format"`
	Metric        string              `json:"metric"`
	Vocabulary    map[string][]string `json:"vocabulary"`
	Schema        frame.Schema        `json:"schema"`
}

// State captures the fitted state for persistence.
func (t *StringSimilarity) State() (*State, error) {
	if !t.fitted {
		return nil, featgo.ErrNotFitted
	}

	state := &State{
		Variables:     t.Variables(),
		TopCategories: t.opts.TopCategories,
		Missing:       t.opts.Missing.String(),
		IgnoreFormat:  t.opts.IgnoreFormat,
		Metric:        t.opts.Metric.String(),
		Vocabulary:    t.Vocabulary(),
		Schema:        append(frame.Schema(nil), t.schema...),
	}

	return state, nil
}

// Restore creates a fitted encoder from persisted state. Options such as
// Logger, Metrics or a custom Scorer can be re-attached via optFns;
// configuration recorded in the state takes precedence.
func Restore(state *State, optFns ...func(o *Options)) (*StringSimilarity, error) {
	if state == nil {
		return nil, &featgo.ErrInvalidConfig{Param: "state", Value: nil, Constraint: "a non-nil state"}
	}

	if len(state.Variables) == 0 {
		return nil, &featgo.ErrInvalidConfig{Param: "state", Value: state.Variables, Constraint: "at least one fitted variable"}
	}

	missing, err := ParseMissingPolicy(state.Missing)
	if err != nil {
		return nil, &featgo.ErrInvalidConfig{Param: "state", Value: state.Missing, Constraint: "a known missing-value policy"}
	}

	metric, err := similarity.ParseMetric(state.Metric)
	if err != nil {
		return nil, &featgo.ErrInvalidConfig{Param: "state", Value: state.Metric, Constraint: "a known similarity metric"}
	}

	t, err := New(append(optFns, func(o *Options) {
		o.Variables = state.Variables
		o.TopCategories = state.TopCategories
		o.Missing = missing
		o.IgnoreFormat = state.IgnoreFormat
		o.Metric = metric
	})...)
	if err != nil {
		return nil, err
	}

	vocab := make(map[string][]string, len(state.Vocabulary))
	for _, name := range state.Variables {
		cats, ok := state.Vocabulary[name]
		if !ok {
			return nil, &featgo.ErrInvalidConfig{Param: "state", Value: name, Constraint: "a vocabulary for every fitted variable"}
		}
		vocab[name] = append([]string(nil), cats...)
	}

	t.vars = append([]string(nil), state.Variables...)
	t.vocab = vocab
	t.schema = append(frame.Schema(nil), state.Schema...)
	t.fitted = true

	return t, nil
}
