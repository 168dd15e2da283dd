package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	closer io.Closer // 文件 writer 的资源清理
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

// New 创建输出到控制台的 Logger
func New(opts ...Option) *Logger {
	return newLogger(consoleWriter(os.Stdout), opts...)
}

// NewWriter 创建输出 JSON 到 w 的 Logger
func NewWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// Nop 返回不输出任何内容的 Logger
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// NewFromConfig 按配置创建 Logger。
// Format 为 json 时输出 JSON，否则输出到控制台；File.Filename 非空时同时写文件。
func NewFromConfig(c Config, opts ...Option) (*Logger, error) {
	level := zerolog.InfoLevel
	if c.Level != "" {
		parsed, err := zerolog.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		level = parsed
	}

	var out io.Writer = os.Stderr
	if c.Format != "json" {
		out = consoleWriter(os.Stderr)
	}

	var closer io.Closer
	if c.File.Filename != "" {
		fw, err := fileWriter(c.File)
		if err != nil {
			return nil, err
		}
		out = zerolog.MultiLevelWriter(out, fw)
		closer = fw
	}

	logger := newLogger(out, append([]Option{WithLevel(level)}, opts...)...)
	logger.closer = closer
	return logger, nil
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Errorf 以 error 级别输出格式化日志
func (l *Logger) Errorf(format string, args ...any) {
	l.Logger.Error().Msgf(format, args...)
}

// Warnf 以 warn 级别输出格式化日志
func (l *Logger) Warnf(format string, args ...any) {
	l.Logger.Warn().Msgf(format, args...)
}

// Debugf 以 debug 级别输出格式化日志
func (l *Logger) Debugf(format string, args ...any) {
	l.Logger.Debug().Msgf(format, args...)
}
