package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields encodes typed zap fields into a map for WithFields
func Fields(fields ...zap.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}
