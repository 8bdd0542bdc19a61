package predictor

import "errors"

// Sentinel kinds for predictor errors.
var (
	ErrInvalidArtifact  = errors.New("invalid pipeline artifact")
	ErrPredictionFailed = errors.New("prediction failed")
)
