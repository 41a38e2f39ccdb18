package tree

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// audit is the debug-build assertion surface: with WithLLRBAudit armed, every
// public mutation re-validates the whole tree. A violation here is a bug in
// the balancing logic itself, never a user error, so it is logged and then
// escalated to a panic instead of being returned.
func (tree *llrbTree[K, V]) audit(op string) {
	if tree.logger == nil {
		return
	}
	if err := tree.validate(); err != nil {
		tree.logger.Error("llrb invariant violation",
			zap.String("op", op),
			zap.Int64("len", tree.Len()),
			zap.Int64("height", tree.Height()),
			zap.Bool("variant234", tree.is234),
			zap.Error(err),
		)
		panic( /* debug assertion */ "[llrb] invariant violation after " + op)
	}
}

func defaultAuditLogger() *zap.Logger {
	config := zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "lvl",
		EncodeLevel: zapcore.CapitalLevelEncoder,
		TimeKey:     "ts",
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		NameKey:     "component",
		EncodeName:  zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.Lock(os.Stderr),
		zapcore.ErrorLevel,
	)
	return zap.New(core).Named("llrb")
}
