package dice

import "go.uber.org/zap"

// LoggedSource wraps a Source and logs every draw at debug level.
//
// Not safe for concurrent use; a generation run owns a single stream.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
	draws  int
}

// NewLoggedSource creates a LoggedSource drawing from src.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped Source and records the draw.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.draws++
	l.logger.Debug("rng draw",
		zap.Int("n", n),
		zap.Int("value", v),
		zap.Int("draw", l.draws),
	)
	return v
}

// Draws reports how many values have been drawn.
func (l *LoggedSource) Draws() int {
	return l.draws
}
