package classifier

import "errors"

var (
	// ErrModelLoad indicates the model artifact is missing or corrupt.
	ErrModelLoad = errors.New("model load failed")
	// ErrModelInvocation indicates the inference backend reported an error.
	ErrModelInvocation = errors.New("model invocation failed")
	// ErrShapeMismatch indicates the model produced a score vector whose length
	// differs from the label set.
	ErrShapeMismatch = errors.New("score vector and label set lengths differ")
	// ErrLabelSetMismatch indicates the label file does not fit the model output width.
	ErrLabelSetMismatch = errors.New("label set does not match model output")
)
