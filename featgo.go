package featgo

import (
	"github.com/hupe1980/featgo/frame"
)

// Transformer is the estimator contract shared by all feature transformers.
//
// Fit learns parameters from a training frame and replaces any previously
// learned state only on success. Transform applies the learned parameters to
// a compatible frame and returns a new frame, leaving the input untouched.
// Calling Transform before a successful Fit returns ErrNotFitted.
type Transformer interface {
	// Fit learns the transformer parameters from the given frame.
	Fit(f *frame.Frame) error

	// Transform returns a new frame with the learned transformation applied.
	Transform(f *frame.Frame) (*frame.Frame, error)

	// FitTransform fits on the frame and transforms it in one call.
	FitTransform(f *frame.Frame) (*frame.Frame, error)

	// Fitted reports whether the transformer holds learned state.
	Fitted() bool
}
