package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/timeclock-report/internal/attendance"
	"github.com/username/timeclock-report/internal/calendar"
	"github.com/username/timeclock-report/internal/config"
	"github.com/username/timeclock-report/internal/overlay"
	"github.com/username/timeclock-report/internal/processor"
	"github.com/username/timeclock-report/internal/timesheet"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timeclock-report",
		Short: "Time-clock HTML to consolidated spreadsheet converter",
		Long:  "Convert monthly time-clock HTML exports into a consolidated xlsx report with worked, expected and balance hours per day and month",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger("info") // Fallback to console
				}
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info") // Default console logger
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.yaml in ., $HOME/.timeclock-report, /etc/timeclock-report)")

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(totalsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initializeCalendar(cfg *config.Config) calendar.Calendar {
	computed := calendar.NewComputed(cfg.Holidays.IncludeEasterSunday, logger)
	if cfg.Holidays.ExtraFile == "" {
		return computed
	}

	logger.Info("Using extra holidays file", zap.String("file", cfg.Holidays.ExtraFile))
	return calendar.NewCompositeCalendar(computed, logger,
		calendar.NewFileCalendar(cfg.Holidays.ExtraFile, logger))
}

func initializeProcessor(cfg *config.Config) (*processor.Processor, error) {
	// Load overlays once per run
	overlays, err := overlay.NewLoader(logger).Load(cfg.Overlays.Files())
	if err != nil {
		return nil, fmt.Errorf("failed to load overlays: %w", err)
	}

	policy := timesheet.Policy{
		FullDay: cfg.Workload.GetFullDay(),
		HalfDay: cfg.Workload.GetHalfDay(),
	}

	return processor.New(
		attendance.NewHTMLExtractor(logger),
		initializeCalendar(cfg),
		overlays,
		processor.Options{
			Pattern:             cfg.Input.GetPattern(),
			Workers:             cfg.Processing.Workers,
			Policy:              policy,
			AshWednesdayHalfDay: cfg.Holidays.AshWednesdayHalfDay,
		},
		logger,
	), nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		config.Level = lvl
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
