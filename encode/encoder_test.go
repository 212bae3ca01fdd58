package encode

import (
	"testing"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/frame"
	"github.com/hupe1980/featgo/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainFrame(t *testing.T) *frame.Frame {
	t.Helper()

	var letters []string

	add := func(v string, n int) {
		for i := 0; i < n; i++ {
			letters = append(letters, v)
		}
	}

	add("A", 5)
	add("B", 11)
	add("C", 4)

	fare := make([]float64, len(letters))
	for i := range fare {
		fare[i] = float64(i)
	}

	f, err := frame.New(
		frame.NewStringSeries("var_A", letters),
		frame.NewFloatSeries("fare", fare),
	)
	require.NoError(t, err)

	return f
}

func fruitFrame(t *testing.T) *frame.Frame {
	t.Helper()

	fruit := frame.NewStringSeries("fruit", []string{"apple", "", "apple", ""})
	fruit.SetNull(1)
	fruit.SetNull(3)

	f, err := frame.New(fruit)
	require.NoError(t, err)

	return f
}

func columnSum(t *testing.T, f *frame.Frame, name string) float64 {
	t.Helper()

	col, ok := f.Column(name)
	require.True(t, ok, "missing column %q", name)

	var sum float64
	for i := 0; i < col.Len(); i++ {
		sum += col.FloatAt(i)
	}

	return sum
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)
		assert.False(t, enc.Fitted())
	})

	t.Run("NegativeTopCategories", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.TopCategories = -1
		})

		var invalidErr *featgo.ErrInvalidConfig
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "top categories", invalidErr.Param)
	})

	t.Run("UnknownMissingPolicy", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Missing = MissingPolicy(9)
		})
		assert.Error(t, err)
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Metric = similarity.Metric(99)
		})

		var invalidErr *featgo.ErrInvalidConfig
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "metric", invalidErr.Param)
	})

	t.Run("EmptyVariables", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Variables = []string{}
		})
		assert.Error(t, err)
	})

	t.Run("DuplicateVariables", func(t *testing.T) {
		_, err := New(func(o *Options) {
			o.Variables = []string{"city", "city"}
		})
		assert.Error(t, err)
	})
}

func TestFit(t *testing.T) {
	t.Run("AutoSelectsStringVariables", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		require.NoError(t, enc.Fit(trainFrame(t)))
		assert.True(t, enc.Fitted())
		assert.Equal(t, []string{"var_A"}, enc.Variables())
		assert.Equal(t, []string{"B", "A", "C"}, enc.Vocabulary()["var_A"])
	})

	t.Run("TopCategoriesBoundsVocabulary", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.TopCategories = 2
		})
		require.NoError(t, err)

		require.NoError(t, enc.Fit(trainFrame(t)))
		assert.Equal(t, []string{"B", "A"}, enc.Vocabulary()["var_A"])
	})

	t.Run("NoStringVariables", func(t *testing.T) {
		f, err := frame.New(frame.NewFloatSeries("fare", []float64{1, 2}))
		require.NoError(t, err)

		enc, err := New()
		require.NoError(t, err)

		assert.ErrorIs(t, enc.Fit(f), frame.ErrInvalidData)
	})

	t.Run("NonStringVariable", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.Variables = []string{"fare"}
		})
		require.NoError(t, err)

		err = enc.Fit(trainFrame(t))

		var kindErr *frame.ErrKindMismatch
		require.ErrorAs(t, err, &kindErr)
		assert.Equal(t, "fare", kindErr.Variable)
		assert.False(t, enc.Fitted())
	})

	t.Run("UnknownVariable", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.Variables = []string{"nope"}
		})
		require.NoError(t, err)

		err = enc.Fit(trainFrame(t))

		var notFoundErr *frame.ErrColumnNotFound
		assert.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("RefitReplacesState", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		require.NoError(t, enc.Fit(trainFrame(t)))

		f, err := frame.New(frame.NewStringSeries("city", []string{"rome", "rome", "paris"}))
		require.NoError(t, err)

		require.NoError(t, enc.Fit(f))
		assert.Equal(t, []string{"city"}, enc.Variables())
		assert.Equal(t, []string{"rome", "paris"}, enc.Vocabulary()["city"])
	})

	t.Run("FailedRefitKeepsState", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		require.NoError(t, enc.Fit(trainFrame(t)))

		bad, err := frame.New(frame.NewFloatSeries("fare", []float64{1}))
		require.NoError(t, err)

		require.Error(t, enc.Fit(bad))
		assert.True(t, enc.Fitted())
		assert.Equal(t, []string{"var_A"}, enc.Variables())
	})
}

func TestTransform(t *testing.T) {
	t.Run("ReplacesVariableWithBlock", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.TopCategories = 2
		})
		require.NoError(t, err)

		train := trainFrame(t)
		out, err := enc.FitTransform(train)
		require.NoError(t, err)

		assert.Equal(t, []string{"fare", "var_A_B", "var_A_A"}, out.Names())
		assert.False(t, out.Has("var_A"))
		assert.Equal(t, train.NumRows(), out.NumRows())

		// Inter-letter similarities are zero, so each block column sums to
		// the frequency of its category.
		assert.InDelta(t, 11.0, columnSum(t, out, "var_A_B"), 1e-12)
		assert.InDelta(t, 5.0, columnSum(t, out, "var_A_A"), 1e-12)
	})

	t.Run("ColumnCount", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		train := trainFrame(t)
		out, err := enc.FitTransform(train)
		require.NoError(t, err)

		vocabSize := len(enc.Vocabulary()["var_A"])
		assert.Equal(t, train.NumCols()-1+vocabSize, out.NumCols())
	})

	t.Run("UnseenValueGetsGradualScores", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.TopCategories = 2
		})
		require.NoError(t, err)
		require.NoError(t, enc.Fit(trainFrame(t)))

		f, err := frame.New(
			frame.NewStringSeries("var_A", []string{"AB"}),
			frame.NewFloatSeries("fare", []float64{0}),
		)
		require.NoError(t, err)

		out, err := enc.Transform(f)
		require.NoError(t, err)

		colB, _ := out.Column("var_A_B")
		colA, _ := out.Column("var_A_A")
		assert.InDelta(t, 2.0/3.0, colB.FloatAt(0), 1e-12)
		assert.InDelta(t, 2.0/3.0, colA.FloatAt(0), 1e-12)
	})

	t.Run("ReordersToFitSchema", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		train := trainFrame(t)
		require.NoError(t, enc.Fit(train))

		reordered, err := train.Select("fare", "var_A")
		require.NoError(t, err)

		want, err := enc.Transform(train)
		require.NoError(t, err)

		got, err := enc.Transform(reordered)
		require.NoError(t, err)

		assert.True(t, want.Equal(got))
	})

	t.Run("SchemaMismatch", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		train := trainFrame(t)
		require.NoError(t, enc.Fit(train))

		narrow, err := train.Select("var_A")
		require.NoError(t, err)

		_, err = enc.Transform(narrow)

		var schemaErr *frame.ErrSchemaMismatch
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"fare"}, schemaErr.Missing)
	})

	t.Run("NotFitted", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		_, err = enc.Transform(trainFrame(t))
		assert.ErrorIs(t, err, featgo.ErrNotFitted)
	})

	t.Run("InputUntouched", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		train := trainFrame(t)
		snapshot := train.Clone()

		_, err = enc.FitTransform(train)
		require.NoError(t, err)

		assert.True(t, train.Equal(snapshot))
	})

	t.Run("Deterministic", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		train := trainFrame(t)
		require.NoError(t, enc.Fit(train))

		first, err := enc.Transform(train)
		require.NoError(t, err)

		second, err := enc.Transform(train)
		require.NoError(t, err)

		assert.True(t, first.Equal(second))
	})
}

func TestMissingPolicies(t *testing.T) {
	t.Run("ImputeTreatsNullAsCategory", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		out, err := enc.FitTransform(fruitFrame(t))
		require.NoError(t, err)

		// "apple" and the imputed empty string tie on frequency; "apple"
		// was observed first.
		assert.Equal(t, []string{"apple", ""}, enc.Vocabulary()["fruit"])
		assert.Equal(t, []string{"fruit_apple", "fruit_nan"}, out.Names())

		apple, _ := out.Column("fruit_apple")
		nan, _ := out.Column("fruit_nan")

		assert.Equal(t, []float64{1, 0, 1, 0}, apple.Floats())
		assert.Equal(t, []float64{0, 1, 0, 1}, nan.Floats())
		assert.False(t, apple.HasNulls())
		assert.False(t, nan.HasNulls())
	})

	t.Run("ErrorAtFit", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.Missing = MissingError
		})
		require.NoError(t, err)

		err = enc.Fit(fruitFrame(t))

		var missingErr *frame.ErrMissingValues
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "fruit", missingErr.Variable)
		assert.Equal(t, 2, missingErr.Count)
		assert.False(t, enc.Fitted())
	})

	t.Run("ErrorAtTransform", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.Missing = MissingError
		})
		require.NoError(t, err)

		clean, err := frame.New(frame.NewStringSeries("fruit", []string{"apple", "pear"}))
		require.NoError(t, err)
		require.NoError(t, enc.Fit(clean))

		_, err = enc.Transform(fruitFrame(t))

		var missingErr *frame.ErrMissingValues
		assert.ErrorAs(t, err, &missingErr)
	})

	t.Run("IgnoreProducesNullScores", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.Missing = MissingIgnore
		})
		require.NoError(t, err)

		out, err := enc.FitTransform(fruitFrame(t))
		require.NoError(t, err)

		// Nulls are excluded from ranking, so the vocabulary holds only
		// the observed value.
		assert.Equal(t, []string{"apple"}, enc.Vocabulary()["fruit"])

		apple, _ := out.Column("fruit_apple")
		assert.Equal(t, 1.0, apple.FloatAt(0))
		assert.True(t, apple.IsNull(1))
		assert.Equal(t, 1.0, apple.FloatAt(2))
		assert.True(t, apple.IsNull(3))
	})

	t.Run("AllNullVariableYieldsNoBlock", func(t *testing.T) {
		fruit := frame.NewStringSeries("fruit", []string{"", ""})
		fruit.SetNull(0)
		fruit.SetNull(1)

		f, err := frame.New(
			fruit,
			frame.NewFloatSeries("fare", []float64{1, 2}),
		)
		require.NoError(t, err)

		enc, err := New(func(o *Options) {
			o.Missing = MissingIgnore
		})
		require.NoError(t, err)

		out, err := enc.FitTransform(f)
		require.NoError(t, err)

		assert.Empty(t, enc.Vocabulary()["fruit"])
		assert.Equal(t, []string{"fare"}, out.Names())
	})
}

func TestIgnoreFormat(t *testing.T) {
	t.Run("EncodesNumericVariables", func(t *testing.T) {
		f, err := frame.New(
			frame.NewIntSeries("visits", []int64{1, 22, 1}),
			frame.NewFloatSeries("fare", []float64{2, 7.25, 2}),
		)
		require.NoError(t, err)

		enc, err := New(func(o *Options) {
			o.Variables = []string{"visits", "fare"}
			o.IgnoreFormat = true
		})
		require.NoError(t, err)

		out, err := enc.FitTransform(f)
		require.NoError(t, err)

		assert.Equal(t, []string{"1", "22"}, enc.Vocabulary()["visits"])
		assert.Equal(t, []string{"2.0", "7.25"}, enc.Vocabulary()["fare"])
		assert.Equal(t, []string{"visits_1", "visits_22", "fare_2.0", "fare_7.25"}, out.Names())

		visits1, _ := out.Column("visits_1")
		assert.Equal(t, []float64{1, 0, 1}, visits1.Floats())

		// "7.25" shares the digit 2 and the decimal point with "2.0".
		fare2, _ := out.Column("fare_2.0")
		assert.Equal(t, 1.0, fare2.FloatAt(0))
		assert.InDelta(t, 4.0/7.0, fare2.FloatAt(1), 1e-12)
	})

	t.Run("AutoSelectsAllVariables", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.IgnoreFormat = true
		})
		require.NoError(t, err)

		require.NoError(t, enc.Fit(trainFrame(t)))
		assert.Equal(t, []string{"var_A", "fare"}, enc.Variables())
	})

	t.Run("OffRejectsNumericVariable", func(t *testing.T) {
		enc, err := New(func(o *Options) {
			o.Variables = []string{"fare"}
		})
		require.NoError(t, err)

		err = enc.Fit(trainFrame(t))

		var kindErr *frame.ErrKindMismatch
		assert.ErrorAs(t, err, &kindErr)
	})
}

func TestFeatureNamesOut(t *testing.T) {
	newFitted := func(t *testing.T) *StringSimilarity {
		t.Helper()

		enc, err := New(func(o *Options) {
			o.TopCategories = 2
		})
		require.NoError(t, err)
		require.NoError(t, enc.Fit(trainFrame(t)))

		return enc
	}

	t.Run("FullLayout", func(t *testing.T) {
		names, err := newFitted(t).FeatureNamesOut(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"fare", "var_A_B", "var_A_A"}, names)
	})

	t.Run("Subset", func(t *testing.T) {
		names, err := newFitted(t).FeatureNamesOut([]string{"var_A"})
		require.NoError(t, err)
		assert.Equal(t, []string{"var_A_B", "var_A_A"}, names)
	})

	t.Run("NonEncodedVariable", func(t *testing.T) {
		_, err := newFitted(t).FeatureNamesOut([]string{"fare"})

		var invalidErr *featgo.ErrInvalidConfig
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "input features", invalidErr.Param)
	})

	t.Run("NotFitted", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		_, err = enc.FeatureNamesOut(nil)
		assert.ErrorIs(t, err, featgo.ErrNotFitted)
	})
}

func TestInverseTransform(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	require.NoError(t, enc.Fit(trainFrame(t)))

	_, err = enc.InverseTransform(trainFrame(t))

	var unsupportedErr *featgo.ErrUnsupportedOperation
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, "inverse transform", unsupportedErr.Op)
}

func TestCustomScorer(t *testing.T) {
	enc, err := New(func(o *Options) {
		o.Scorer = func(a, b string) float64 {
			if a == b {
				return 1.0
			}
			return 0.5
		}
	})
	require.NoError(t, err)

	out, err := enc.FitTransform(trainFrame(t))
	require.NoError(t, err)

	colC, _ := out.Column("var_A_C")
	assert.Equal(t, 0.5, colC.FloatAt(0))
}

func TestStateRoundTrip(t *testing.T) {
	enc, err := New(func(o *Options) {
		o.TopCategories = 2
	})
	require.NoError(t, err)

	train := trainFrame(t)
	require.NoError(t, enc.Fit(train))

	state, err := enc.State()
	require.NoError(t, err)
	assert.Equal(t, "impute", state.Missing)
	assert.Equal(t, "quick-ratio", state.Metric)

	restored, err := Restore(state)
	require.NoError(t, err)
	assert.True(t, restored.Fitted())
	assert.Equal(t, enc.Vocabulary(), restored.Vocabulary())

	want, err := enc.Transform(train)
	require.NoError(t, err)

	got, err := restored.Transform(train)
	require.NoError(t, err)

	assert.True(t, want.Equal(got))
}

func TestStateErrors(t *testing.T) {
	t.Run("NotFitted", func(t *testing.T) {
		enc, err := New()
		require.NoError(t, err)

		_, err = enc.State()
		assert.ErrorIs(t, err, featgo.ErrNotFitted)
	})

	t.Run("RestoreNil", func(t *testing.T) {
		_, err := Restore(nil)
		assert.Error(t, err)
	})

	t.Run("RestoreMissingVocabulary", func(t *testing.T) {
		_, err := Restore(&State{
			Variables:  []string{"city"},
			Missing:    "impute",
			Metric:     "quick-ratio",
			Vocabulary: map[string][]string{},
		})
		assert.Error(t, err)
	})

	t.Run("RestoreUnknownMetric", func(t *testing.T) {
		_, err := Restore(&State{
			Variables:  []string{"city"},
			Missing:    "impute",
			Metric:     "cosine",
			Vocabulary: map[string][]string{"city": {"rome"}},
		})
		assert.Error(t, err)
	})

	t.Run("RestoreUnknownPolicy", func(t *testing.T) {
		_, err := Restore(&State{
			Variables:  []string{"city"},
			Missing:    "drop",
			Metric:     "quick-ratio",
			Vocabulary: map[string][]string{"city": {"rome"}},
		})
		assert.Error(t, err)
	})
}

func TestCustomScorerNotPersisted(t *testing.T) {
	calls := 0
	enc, err := New(func(o *Options) {
		o.Scorer = func(a, b string) float64 {
			calls++
			return similarity.QuickRatio(a, b)
		}
	})
	require.NoError(t, err)
	require.NoError(t, enc.Fit(trainFrame(t)))

	state, err := enc.State()
	require.NoError(t, err)

	// The persisted state names the configured metric, not the override.
	assert.Equal(t, "quick-ratio", state.Metric)

	restored, err := Restore(state)
	require.NoError(t, err)

	before := calls
	_, err = restored.Transform(trainFrame(t))
	require.NoError(t, err)
	assert.Equal(t, before, calls, "restored encoder must not use the old scorer")
}
