package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"StopWatch/internal/config"
)

const timeLayout = "2006-01-02 15:04:05"

// 文件名沿用 DEBUG/INFO/WARNING/ERROR/CRITICAL 的叫法
var levelNames = map[logrus.Level]string{
	logrus.TraceLevel: "DEBUG",
	logrus.DebugLevel: "DEBUG",
	logrus.InfoLevel:  "INFO",
	logrus.WarnLevel:  "WARNING",
	logrus.ErrorLevel: "ERROR",
	logrus.FatalLevel: "CRITICAL",
	logrus.PanicLevel: "CRITICAL",
}

// ParseLevel 接受 debug/info/warning/error/critical
func ParseLevel(name string) (logrus.Level, error) {
	switch strings.ToLower(name) {
	case "critical":
		return logrus.FatalLevel, nil
	case "warning":
		return logrus.WarnLevel, nil
	}
	return logrus.ParseLevel(name)
}

// Logger 每个级别写各自的滚动日志文件，同时按 console_level 输出到终端
type Logger struct {
	*logrus.Logger

	files   map[string]*lumberjack.Logger
	console *consoleHook
}

// New 创建日志。Dir 为空时只输出到终端。
func New(cfg config.LogConfig) (*Logger, error) {
	consoleLevel, err := ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return nil, err
	}

	formatter := &LineFormatter{}
	l := &Logger{
		Logger:  logrus.New(),
		files:   make(map[string]*lumberjack.Logger),
		console: &consoleHook{out: os.Stderr, level: consoleLevel, formatter: formatter},
	}
	l.Out = io.Discard
	l.Formatter = formatter
	l.Level = logrus.DebugLevel
	l.AddHook(l.console)

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		hook := &levelFileHook{formatter: formatter, writers: make(map[logrus.Level]io.Writer)}
		for level, name := range levelNames {
			w, ok := l.files[name]
			if !ok {
				w = &lumberjack.Logger{
					Filename:   filepath.Join(cfg.Dir, fileName(cfg.Name, name)),
					MaxSize:    cfg.MaxSizeMB,
					MaxBackups: cfg.MaxBackups,
				}
				l.files[name] = w
			}
			hook.writers[level] = w
		}
		l.AddHook(hook)
	}
	return l, nil
}

func fileName(base, level string) string {
	if base == "" {
		return level + ".log"
	}
	return fmt.Sprintf("%s - %s.log", base, level)
}

// Install 替换 logrus 的标准 logger，各个包直接使用 logrus 的包级函数
func (l *Logger) Install() {
	std := logrus.StandardLogger()
	std.ReplaceHooks(l.Hooks)
	std.SetOutput(io.Discard)
	std.SetFormatter(l.Formatter)
	std.SetLevel(l.Level)
}

// SetConsoleLevel 调整终端输出级别，文件不受影响
func (l *Logger) SetConsoleLevel(level logrus.Level) {
	l.console.mu.Lock()
	l.console.level = level
	l.console.mu.Unlock()
}

// SilenceConsole 暂时关闭终端输出，返回恢复函数
func (l *Logger) SilenceConsole() func() {
	l.console.mu.Lock()
	prev := l.console.out
	l.console.out = io.Discard
	l.console.mu.Unlock()
	return func() {
		l.console.mu.Lock()
		l.console.out = prev
		l.console.mu.Unlock()
	}
}

func (l *Logger) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type levelFileHook struct {
	formatter logrus.Formatter
	writers   map[logrus.Level]io.Writer
}

func (h *levelFileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *levelFileHook) Fire(entry *logrus.Entry) error {
	w, ok := h.writers[entry.Level]
	if !ok {
		return nil
	}
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

type consoleHook struct {
	mu        sync.Mutex
	out       io.Writer
	level     logrus.Level
	formatter logrus.Formatter
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if entry.Level > h.level {
		return nil
	}
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(b)
	return err
}

// LineFormatter 输出 "2006-01-02 15:04:05 INFO>>message key=value"
type LineFormatter struct{}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(entry.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(levelNames[entry.Level])
	b.WriteString(">>")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
