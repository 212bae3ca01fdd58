package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newFitCommand() *cobra.Command {
	var input, pipelinePath, output string

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit transformers on CSV training data",
		Example: `  featgo fit -i train.csv -p pipeline.yaml -o model.fgo
  featgo fit -i train.csv -p pipeline.yaml -o model.fgo -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := loadPipeline(pipelinePath)
			if err != nil {
				return err
			}

			fr, err := readFrame(input)
			if err != nil {
				return err
			}
			slog.Info("Fitting transformers", "steps", len(pipeline.Steps), "rows", fr.NumRows(), "columns", fr.NumCols())

			start := time.Now()

			steps := make([]fittedStep, 0, len(pipeline.Steps))
			for i, step := range pipeline.Steps {
				tr, err := buildTransformer(step)
				if err != nil {
					return fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
				}

				// Each step is fitted on the output of the previous one, so
				// transform applies them in the same order later.
				out, err := tr.FitTransform(fr)
				if err != nil {
					return fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
				}
				fr = out

				state, err := stepState(tr)
				if err != nil {
					return fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
				}
				steps = append(steps, fittedStep{kind: step.Kind, state: state})

				slog.Debug("Step fitted", "step", i, "kind", step.Kind, "columns", fr.NumCols())
			}
			slog.Debug("Fit completed", "duration", time.Since(start))

			if err := writeModel(output, steps); err != nil {
				return err
			}
			slog.Info("Model saved", "path", output, "steps", len(steps))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to training CSV file")
	cmd.Flags().StringVarP(&pipelinePath, "pipeline", "p", "pipeline.yaml", "Path to YAML pipeline file")
	cmd.Flags().StringVarP(&output, "output", "o", "model.fgo", "Path to write the fitted model")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
