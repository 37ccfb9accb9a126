package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the structured logger handed to the resolver.
// Verbose runs get human-readable debug output; otherwise only warnings
// and above are emitted, as JSON.
func newLogger(opts *RootOptions, w io.Writer) *zap.Logger {
	var enc zapcore.Encoder
	level := zapcore.WarnLevel
	if opts.Verbose {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
		level = zapcore.DebugLevel
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}
