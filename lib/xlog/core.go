package xlog

import (
	"time"

	"go.uber.org/zap/zapcore"
)

var (
	_ XLogCore = (*consoleCore)(nil)
	_ XLogCore = (*sampledCore)(nil)
)

func newEncoderConfig(lvlEnc zapcore.LevelEncoder, tsEnc zapcore.TimeEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
}

// consoleCore writes every entry.
type consoleCore struct{}

func (cc *consoleCore) Build(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) (zapcore.Core, error) {
	enc := getEncoderByType(encoder)(newEncoderConfig(lvlEnc, tsEnc))
	return zapcore.NewCore(enc, ws, lvlEnabler), nil
}

// sampledCore keeps the first entries with the same level and message in
// every tick, then one of each thereafter. Zero thereafter drops the rest.
// A set rejecting a whole sequence of NaN would flood the output otherwise.
type sampledCore struct {
	tick       time.Duration
	first      int
	thereafter int
}

func (sc *sampledCore) Build(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) (zapcore.Core, error) {
	core, err := (&consoleCore{}).Build(lvlEnabler, encoder, ws, lvlEnc, tsEnc)
	if err != nil {
		return nil, err
	}
	return zapcore.NewSamplerWithOptions(core, sc.tick, sc.first, sc.thereafter), nil
}
