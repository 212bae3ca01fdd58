package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/codec"
	"github.com/hupe1980/featgo/discretise"
	"github.com/hupe1980/featgo/encode"
	"github.com/hupe1980/featgo/snapshot"
)

const (
	kindDiscretise = "discretise"
	kindEncode     = "encode"
)

type fittedStep struct {
	kind  string
	state any
}

// writeModel stores the fitted steps as concatenated snapshot envelopes.
func writeModel(path string, steps []fittedStep) error {
	var buf bytes.Buffer
	for i, s := range steps {
		if err := snapshot.Write(&buf, s.kind, s.state); err != nil {
			return fmt.Errorf("write model step %d: %w", i, err)
		}
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

type modelStep struct {
	info *snapshot.Info
	raw  json.RawMessage
}

func readModel(path string) ([]modelStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	r := bytes.NewReader(data)

	var steps []modelStep
	for r.Len() > 0 {
		var raw json.RawMessage
		info, err := snapshot.ReadEnvelope(r, &raw)
		if err != nil {
			return nil, fmt.Errorf("read model step %d: %w", len(steps), err)
		}

		steps = append(steps, modelStep{info: info, raw: raw})
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("model file %s contains no steps", path)
	}

	return steps, nil
}

func restoreTransformer(ms modelStep) (featgo.Transformer, error) {
	switch ms.info.Kind {
	case kindDiscretise:
		var state discretise.State
		if err := codec.Default.Unmarshal(ms.raw, &state); err != nil {
			return nil, fmt.Errorf("decode %s state: %w", ms.info.Kind, err)
		}
		return discretise.Restore(&state)
	case kindEncode:
		var state encode.State
		if err := codec.Default.Unmarshal(ms.raw, &state); err != nil {
			return nil, fmt.Errorf("decode %s state: %w", ms.info.Kind, err)
		}
		return encode.Restore(&state)
	default:
		return nil, fmt.Errorf("unknown step kind %q", ms.info.Kind)
	}
}

func stepState(tr featgo.Transformer) (any, error) {
	switch t := tr.(type) {
	case *discretise.IncreasingWidth:
		return t.State()
	case *encode.StringSimilarity:
		return t.State()
	default:
		return nil, fmt.Errorf("transformer %T has no persistable state", tr)
	}
}
