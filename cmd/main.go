package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StopWatch/internal/audio"
	"StopWatch/internal/config"
	"StopWatch/internal/logging"
	"StopWatch/internal/storage"
	"StopWatch/internal/timer"
	"StopWatch/internal/tui"
	"StopWatch/internal/ui"
)

// 版本号在构建时通过 -ldflags 注入
var version = "dev"

var (
	configPath string
	minutes    int
	countUp    bool
	sound      bool
	tuiMode    bool
	verbose    bool

	historyRange  string
	historyRecent int

	rootCmd = &cobra.Command{
		Use:   "stopwatch",
		Short: "A small always-visible countdown / stopwatch",
		Long:  "StopWatch counts down (or up) from a chosen number of minutes. F5 starts and pauses, F6 resets, Esc quits.",
		Args:  cobra.NoArgs,
		RunE:  runTimer,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Print run history statistics",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.stopwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to the console")

	rootCmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "start minutes, overrides app.start_minutes")
	rootCmd.Flags().BoolVar(&countUp, "count-up", false, "count up instead of down")
	rootCmd.Flags().BoolVar(&sound, "sound", false, "play a sound during the last seconds")
	rootCmd.Flags().BoolVar(&tuiMode, "tui", false, "run in the terminal instead of a window")

	historyCmd.Flags().StringVarP(&historyRange, "range", "r", "all", "time range: today, week, month or all")
	historyCmd.Flags().IntVarP(&historyRecent, "recent", "n", 10, "number of recent runs to list")

	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// setup 加载配置并初始化日志，调用方负责关闭返回的 Logger
func setup() (*config.Manager, *logging.Logger, error) {
	manager, err := config.NewManager(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := manager.GetConfig().Log
	if logCfg.Dir == "" {
		logCfg.Dir = filepath.Join(filepath.Dir(manager.Path()), "logs")
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	logger.Install()
	if verbose {
		logger.SetConsoleLevel(logrus.DebugLevel)
	}
	logrus.WithField("config", manager.Path()).Debug("config loaded")
	return manager, logger, nil
}

// applyFlags 命令行参数只覆盖内存中的配置
func applyFlags(cmd *cobra.Command, manager *config.Manager) error {
	flags := cmd.Flags()
	var o config.Overrides
	if flags.Changed("minutes") {
		startMinutes := minutes
		o.StartMinutes = &startMinutes
	}
	if flags.Changed("count-up") {
		countDown := !countUp
		o.CountDown = &countDown
	}
	if flags.Changed("sound") {
		playSound := sound
		o.PlaySound = &playSound
	}
	return manager.Apply(o)
}

// openHistory 相对路径相对于配置文件所在目录
func openHistory(manager *config.Manager) (*storage.Database, error) {
	cfg := manager.GetConfig().History
	if !cfg.Enabled {
		return nil, nil
	}
	path := cfg.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(manager.Path()), path)
	}
	return storage.NewDatabase(path)
}

func runTimer(cmd *cobra.Command, args []string) error {
	manager, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := applyFlags(cmd, manager); err != nil {
		return err
	}

	db, err := openHistory(manager)
	if err != nil {
		logrus.WithError(err).Warn("history disabled")
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	cfg := manager.GetConfig()
	logrus.WithFields(logrus.Fields{"version": cfg.App.Version, "tui": tuiMode}).Info("starting")

	if tuiMode {
		var recorder timer.Recorder
		if db != nil {
			recorder = db
		}
		return tui.Run(cmd.Context(), cfg, tui.RunOptions{
			Player:   audio.NewPlayer(cfg.Sound.Path, cfg.Sound.Volume),
			Recorder: recorder,
			Silence:  logger.SilenceConsole,
		})
	}

	a := app.New()
	if cfg.App.DarkMode {
		a.Settings().SetTheme(theme.DarkTheme())
	}

	mainWindow, err := ui.NewMainWindow(a, manager, db, ui.Options{})
	if err != nil {
		return err
	}

	go func() {
		<-cmd.Context().Done()
		fyne.Do(a.Quit)
	}()
	mainWindow.Show()
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	name, ok := rangeNames[historyRange]
	if !ok {
		return fmt.Errorf("unknown range %q", historyRange)
	}

	manager, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	db, err := openHistory(manager)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("history is disabled in %s", manager.Path())
	}
	defer db.Close()

	return printHistory(cmd, db, name)
}

var rangeNames = map[string]string{
	"today": "Today",
	"week":  "This Week",
	"month": "This Month",
	"all":   "All Time",
}

func printHistory(cmd *cobra.Command, db ui.HistoryReader, name string) error {
	now := time.Now()
	stats, err := db.GetHistoryStats(ui.RangeStart(name, now), now, ui.RangeStart("Today", now))
	if err != nil {
		return err
	}
	runs, err := db.RecentRuns(historyRecent)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n%s\n\nRecent runs:\n%s\n", name, ui.FormatStats(stats), ui.FormatRuns(runs))
	return nil
}
