package cli

import (
	"fmt"
	"os"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/discretise"
	"github.com/hupe1980/featgo/encode"
	"github.com/hupe1980/featgo/similarity"
	"gopkg.in/yaml.v3"
)

// Pipeline is the YAML description of the transform steps to fit.
type Pipeline struct {
	Steps []Step `yaml:"steps"`
}

// Step configures a single transform step. Fields that do not apply to the
// step kind are ignored.
type Step struct {
	Kind             string   `yaml:"kind"`
	Variables        []string `yaml:"variables,omitempty"`
	Bins             int      `yaml:"bins,omitempty"`
	ReturnObject     bool     `yaml:"return_object,omitempty"`
	ReturnBoundaries bool     `yaml:"return_boundaries,omitempty"`
	TopCategories    int      `yaml:"top_categories,omitempty"`
	Missing          string   `yaml:"missing,omitempty"`
	Metric           string   `yaml:"metric,omitempty"`
	IgnoreFormat     bool     `yaml:"ignore_format,omitempty"`
}

func loadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pipeline file: %w", err)
	}

	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("pipeline file %s contains no steps", path)
	}

	return &p, nil
}

func buildTransformer(s Step) (featgo.Transformer, error) {
	switch s.Kind {
	case kindDiscretise:
		return discretise.New(func(o *discretise.Options) {
			o.Variables = s.Variables
			if s.Bins != 0 {
				o.Bins = s.Bins
			}
			o.ReturnObject = s.ReturnObject
			o.ReturnBoundaries = s.ReturnBoundaries
		})
	case kindEncode:
		missing := encode.DefaultOptions.Missing
		if s.Missing != "" {
			var err error
			if missing, err = encode.ParseMissingPolicy(s.Missing); err != nil {
				return nil, err
			}
		}

		metric := encode.DefaultOptions.Metric
		if s.Metric != "" {
			var err error
			if metric, err = similarity.ParseMetric(s.Metric); err != nil {
				return nil, err
			}
		}

		return encode.New(func(o *encode.Options) {
			o.Variables = s.Variables
			o.TopCategories = s.TopCategories
			o.Missing = missing
			o.IgnoreFormat = s.IgnoreFormat
			o.Metric = metric
		})
	default:
		return nil, fmt.Errorf("unknown step kind %q (expected %q or %q)", s.Kind, kindDiscretise, kindEncode)
	}
}
