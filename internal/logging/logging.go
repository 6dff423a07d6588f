// Package logging builds the zap logger used across todoctl.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing debug output to w when debug is set,
// and a no-op logger otherwise.
func New(debug bool, w io.Writer) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("todoctl")
}
