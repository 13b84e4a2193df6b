package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/EnchantedPupu/atlas-backend-sub001/config"
)

// 采样参数：每秒同一条消息前 100 条全部输出，之后每 100 条输出 1 条
const (
	sampleTick       = time.Second
	sampleFirst      = 100
	sampleThereafter = 100
)

// NewLogger 根据配置初始化 Zap 日志实例
// format=console 用于本地开发，其余均输出 JSON；所有日志带 service=atlas 字段
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("打开日志输出 %q 失败: %w", cfg.Output, err)
	}

	var core zapcore.Core = zapcore.NewCore(newEncoder(cfg.Format), sink, zap.NewAtomicLevelAt(level))
	if cfg.Sampling {
		core = zapcore.NewSamplerWithOptions(core, sampleTick, sampleFirst, sampleThereafter)
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
		zap.Fields(zap.String("service", "atlas")),
	}
	if cfg.Format == "console" {
		opts = append(opts, zap.Development())
	}

	return zap.New(core, opts...), nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "console" {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

// openSink 解析日志输出目标，文件以追加方式打开
func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}
