package forecast

import "github.com/okian/growthdash/internal/domain/predictor"

// ErrPredictionFailed is returned when any quarter of a sweep cannot be
// predicted. It is the predictor package's sentinel, so errors.Is matches
// failures raised at either layer.
var ErrPredictionFailed = predictor.ErrPredictionFailed
