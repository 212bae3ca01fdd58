package cli

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/featgo/codec"
	"github.com/hupe1980/featgo/discretise"
	"github.com/hupe1980/featgo/encode"
	"github.com/spf13/cobra"
)

type stepSummary struct {
	Kind         string         `json:"kind"`
	Codec        string         `json:"codec"`
	Compression  string         `json:"compression"`
	PayloadBytes uint64         `json:"payload_bytes"`
	Variables    []string       `json:"variables,omitempty"`
	Bins         map[string]int `json:"bins,omitempty"`
	Vocabulary   map[string]int `json:"vocabulary,omitempty"`
}

func (c *CLI) newInspectCommand() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Print a summary of a fitted model",
		Example: `  featgo inspect -m model.fgo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := readModel(modelPath)
			if err != nil {
				return err
			}

			summaries := make([]stepSummary, 0, len(steps))
			for i, ms := range steps {
				summary, err := summarizeStep(ms)
				if err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}
				summaries = append(summaries, summary)
			}

			output, err := json.MarshalIndent(summaries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "model.fgo", "Path to fitted model file")
	return cmd
}

func summarizeStep(ms modelStep) (stepSummary, error) {
	summary := stepSummary{
		Kind:         ms.info.Kind,
		Codec:        ms.info.Codec,
		Compression:  ms.info.Compression.String(),
		PayloadBytes: ms.info.PayloadLen,
	}

	switch ms.info.Kind {
	case kindDiscretise:
		var state discretise.State
		if err := codec.Default.Unmarshal(ms.raw, &state); err != nil {
			return stepSummary{}, err
		}
		summary.Variables = state.Variables
		summary.Bins = make(map[string]int, len(state.InnerEdges))
		for name, edges := range state.InnerEdges {
			// n inner edges plus the infinite outer edges bound n+1 intervals.
			summary.Bins[name] = len(edges) + 1
		}
	case kindEncode:
		var state encode.State
		if err := codec.Default.Unmarshal(ms.raw, &state); err != nil {
			return stepSummary{}, err
		}
		summary.Variables = state.Variables
		summary.Vocabulary = make(map[string]int, len(state.Vocabulary))
		for name, vocab := range state.Vocabulary {
			summary.Vocabulary[name] = len(vocab)
		}
	}

	return summary, nil
}
