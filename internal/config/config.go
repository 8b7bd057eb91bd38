package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Timer   TimerConfig   `yaml:"timer"`
	Hotkeys HotkeyConfig  `yaml:"hotkeys"`
	Sound   SoundConfig   `yaml:"sound"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	About   AboutConfig   `yaml:"about"`
}

type AppConfig struct {
	Name         string `yaml:"name" validate:"required"`
	Version      string `yaml:"version" validate:"required"`
	BaseSize     int    `yaml:"base_size" validate:"min=1"`
	Frameless    bool   `yaml:"frameless"`
	StartMinutes int    `yaml:"start_minutes" validate:"min=0"`
	DarkMode     bool   `yaml:"dark_mode"`
	// Padding 单个数字或者四个数字 [padx, pady, ipadx, ipady]
	Padding any `yaml:"padding,omitempty"`
}

type TimerConfig struct {
	CountDown      bool          `yaml:"count_down"`
	PlaySound      bool          `yaml:"play_sound"`
	AlertThreshold int           `yaml:"alert_threshold_seconds" validate:"min=1"`
	TickInterval   time.Duration `yaml:"tick_interval" validate:"gt=0"`
	ResetDelay     time.Duration `yaml:"reset_delay" validate:"gte=0"`
	MinMinutes     int           `yaml:"min_minutes" validate:"min=0"`
	MaxMinutes     int           `yaml:"max_minutes" validate:"gtefield=MinMinutes,min=1"`
}

type HotkeyConfig struct {
	Global       bool          `yaml:"global"`
	Start        string        `yaml:"start" validate:"required"`
	Reset        string        `yaml:"reset" validate:"required"`
	QuitModifier string        `yaml:"quit_modifier" validate:"required"`
	QuitKey      string        `yaml:"quit_key" validate:"required"`
	QuitWindow   time.Duration `yaml:"quit_window" validate:"gt=0"`
}

type SoundConfig struct {
	Path   string  `yaml:"path"`
	Volume float64 `yaml:"volume" validate:"gte=-10,lte=5"`
}

type LogConfig struct {
	Dir          string `yaml:"dir"`
	Name         string `yaml:"name"`
	ConsoleLevel string `yaml:"console_level" validate:"oneof=debug info warning error critical"`
	MaxSizeMB    int    `yaml:"max_size_mb" validate:"min=1"`
	MaxBackups   int    `yaml:"max_backups" validate:"min=0"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

type AboutConfig struct {
	Author           string   `yaml:"author"`
	DonateURL        string   `yaml:"donate_url" validate:"omitempty,url"`
	ShowUpdate       bool     `yaml:"show_update"`
	Acknowledgements []string `yaml:"acknowledgements"`
}

// SortedAcknowledgements 按不区分大小写的字母顺序排列，不修改原切片
func (c AboutConfig) SortedAcknowledgements() []string {
	sorted := append([]string(nil), c.Acknowledgements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	return sorted
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "StopWatch",
			Version:      "0.1.0",
			BaseSize:     5,
			Frameless:    true,
			StartMinutes: 5,
		},
		Timer: TimerConfig{
			CountDown:      true,
			PlaySound:      false,
			AlertThreshold: 10,
			TickInterval:   time.Second,
			ResetDelay:     2 * time.Second,
			MinMinutes:     1,
			MaxMinutes:     60,
		},
		Hotkeys: HotkeyConfig{
			Global:       true,
			Start:        "f5",
			Reset:        "f6",
			QuitModifier: "alt",
			QuitKey:      "f4",
			QuitWindow:   500 * time.Millisecond,
		},
		Sound: SoundConfig{
			Volume: 0,
		},
		Log: LogConfig{
			Name:         "stopwatch",
			ConsoleLevel: "info",
			MaxSizeMB:    5,
			MaxBackups:   5,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "history.db",
		},
		About: AboutConfig{
			Author:     "funchan@msn.cn",
			DonateURL:  "https://bmc.link/funchan7",
			ShowUpdate: true,
			Acknowledgements: []string{
				"fyne", "beep", "gohook", "logrus", "cobra", "bubbletea", "go-sqlite3", "yaml.v3",
			},
		},
	}
}

// Overrides 命令行参数的覆盖值，只在内存中生效，不会写进配置文件
type Overrides struct {
	StartMinutes *int
	CountDown    *bool
	PlaySound    *bool
}

func (o Overrides) merge(next Overrides) Overrides {
	if next.StartMinutes != nil {
		o.StartMinutes = next.StartMinutes
	}
	if next.CountDown != nil {
		o.CountDown = next.CountDown
	}
	if next.PlaySound != nil {
		o.PlaySound = next.PlaySound
	}
	return o
}

func (o Overrides) on(cfg *Config) *Config {
	out := cfg.clone()
	if o.StartMinutes != nil {
		out.App.StartMinutes = *o.StartMinutes
	}
	if o.CountDown != nil {
		out.Timer.CountDown = *o.CountDown
	}
	if o.PlaySound != nil {
		out.Timer.PlaySound = *o.PlaySound
	}
	return out
}

// keepUnchanged 去掉被 cfg 改成别的值的覆盖项，用户改过的设置优先于命令行
func (o Overrides) keepUnchanged(cfg *Config) Overrides {
	if o.StartMinutes != nil && *o.StartMinutes != cfg.App.StartMinutes {
		o.StartMinutes = nil
	}
	if o.CountDown != nil && *o.CountDown != cfg.Timer.CountDown {
		o.CountDown = nil
	}
	if o.PlaySound != nil && *o.PlaySound != cfg.Timer.PlaySound {
		o.PlaySound = nil
	}
	return o
}

// restore 仍然生效的覆盖项对应的字段恢复成 prev 里的值，覆盖值不会写进文件
func (o Overrides) restore(cfg, prev *Config) {
	if o.StartMinutes != nil {
		cfg.App.StartMinutes = prev.App.StartMinutes
	}
	if o.CountDown != nil {
		cfg.Timer.CountDown = prev.Timer.CountDown
	}
	if o.PlaySound != nil {
		cfg.Timer.PlaySound = prev.Timer.PlaySound
	}
}

func (c *Config) clone() *Config {
	out := *c
	out.About.Acknowledgements = append([]string(nil), c.About.Acknowledgements...)
	return &out
}

type Manager struct {
	mu         sync.RWMutex
	stored     *Config // 配置文件里的内容
	overrides  Overrides
	config     *Config // stored 加上 overrides
	configPath string
}

// NewManager 加载配置，文件不存在时写入默认配置。path 为空时使用用户目录下的默认位置。
func NewManager(path string) (*Manager, error) {
	if path == "" {
		configDir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(configDir, "config.yaml")
	}

	manager := &Manager{
		configPath: path,
	}

	// 加载或创建配置
	if err := manager.loadConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		manager.stored = DefaultConfig()
		manager.config = manager.stored.clone()
		if err := manager.SaveConfig(); err != nil {
			return nil, err
		}
	}

	return manager, nil
}

func (m *Manager) loadConfig() error {
	cfg, err := readConfig(m.configPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.overrides.on(cfg)
	if err := Validate(next); err != nil {
		return err
	}
	m.stored = cfg
	m.config = next
	return nil
}

// readConfig 缺省的字段保留默认值
func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (m *Manager) SaveConfig() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.stored)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	// 确保配置目录存在
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	return os.WriteFile(m.configPath, data, 0644)
}

// GetConfig 返回配置的副本
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.clone()
}

func (m *Manager) Path() string {
	return m.configPath
}

// 获取配置文件目录
func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// 在用户目录下创建应用配置目录
	configDir := filepath.Join(homeDir, ".stopwatch")
	return configDir, nil
}

// 更新配置的便捷方法
func (m *Manager) UpdateTimerConfig(config TimerConfig) error {
	return m.Update(func(c *Config) { c.Timer = config })
}

func (m *Manager) UpdateAppConfig(config AppConfig) error {
	return m.Update(func(c *Config) { c.App = config })
}

// Update 修改配置并写回文件。fn 改动了的覆盖项不再生效。
func (m *Manager) Update(fn func(*Config)) error {
	if err := m.update(fn); err != nil {
		return err
	}
	return m.SaveConfig()
}

func (m *Manager) update(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.stored.clone()
	fn(stored)
	effective := m.config.clone()
	fn(effective)
	overrides := m.overrides.keepUnchanged(effective)
	overrides.restore(stored, m.stored)

	next := overrides.on(stored)
	if err := Validate(stored); err != nil {
		return err
	}
	if err := Validate(next); err != nil {
		return err
	}
	m.stored, m.overrides, m.config = stored, overrides, next
	return nil
}

// Apply 覆盖内存中的配置但不写回文件，用于命令行参数。重新加载配置文件后仍然生效。
func (m *Manager) Apply(o Overrides) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	overrides := m.overrides.merge(o)
	next := overrides.on(m.stored)
	if err := Validate(next); err != nil {
		return err
	}
	m.overrides, m.config = overrides, next
	return nil
}

// 监听配置变化
type ConfigChangeCallback func(*Config)

// WatchConfig 配置文件被修改后重新加载并回调。回调在监听 goroutine 上执行。
// 无效的修改只记录日志，继续使用旧配置。
func (m *Manager) WatchConfig(ctx context.Context, callback ConfigChangeCallback) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// 监听目录，编辑器保存时经常是先写临时文件再改名
	if err := watcher.Add(filepath.Dir(m.configPath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(m.configPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				// 写文件时先截断，空文件等下一次写入
				if info, err := os.Stat(m.configPath); err == nil && info.Size() == 0 {
					continue
				}
				if err := m.loadConfig(); err != nil {
					logrus.WithError(err).Warn("config reload failed, keeping previous config")
					continue
				}
				logrus.WithField("path", m.configPath).Info("config reloaded")
				callback(m.GetConfig())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.WithError(err).Warn("config watcher error")
			}
		}
	}()
	return nil
}
