package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/featgo/frame"
	"github.com/spf13/cobra"
)

func (c *CLI) newTransformCommand() *cobra.Command {
	var input, modelPath, output string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a fitted model to CSV data",
		Example: `  featgo transform -i data.csv -m model.fgo -o out.csv
  featgo transform -i data.csv -m model.fgo -o out.csv --silent`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := readModel(modelPath)
			if err != nil {
				return err
			}

			fr, err := readFrame(input)
			if err != nil {
				return err
			}
			slog.Info("Applying model", "steps", len(steps), "rows", fr.NumRows(), "columns", fr.NumCols())

			start := time.Now()
			for i, ms := range steps {
				tr, err := restoreTransformer(ms)
				if err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}

				out, err := tr.Transform(fr)
				if err != nil {
					return fmt.Errorf("step %d (%s): %w", i, ms.info.Kind, err)
				}
				fr = out
			}
			slog.Debug("Transform completed", "duration", time.Since(start))

			if err := writeFrame(output, fr); err != nil {
				return err
			}
			slog.Info("Output written", "path", output, "rows", fr.NumRows(), "columns", fr.NumCols())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to input CSV file")
	cmd.Flags().StringVarP(&modelPath, "model", "m", "model.fgo", "Path to fitted model file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to write transformed CSV")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func readFrame(path string) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	fr, err := frame.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return fr, nil
}

func writeFrame(path string, fr *frame.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := frame.WriteCSV(f, fr); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
