package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pheonixfirewingz/crystal-desktop/internal/compositor"
	"github.com/pheonixfirewingz/crystal-desktop/internal/config"
	"github.com/pheonixfirewingz/crystal-desktop/internal/conntable"
	"github.com/pheonixfirewingz/crystal-desktop/internal/display"
	"github.com/pheonixfirewingz/crystal-desktop/internal/logging"
	"github.com/pheonixfirewingz/crystal-desktop/internal/renderer/headlessrenderer"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgFile string
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "prismd",
	Short: "Prism display compositor",
	Long:  `Prism - a lightweight display compositor speaking the CrystalMatrix wire protocol over a local Unix socket`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the compositor",
	Run: func(cmd *cobra.Command, args []string) {
		runCompositor()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compositor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/prism/prism.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging sets up structured logging from config. Call after config.Load().
func initLogging(cfg *config.Config) {
	var output io.Writer = os.Stdout
	logFileFallback := false

	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v (logging to stdout)\n", cfg.LogFile, err)
			logFileFallback = true
		} else {
			output = logging.TeeWriter(os.Stdout, rw)
		}
	}

	logging.Init(cfg.LogFormat, cfg.LogLevel, output)
	log = logging.L("main")

	if logFileFallback {
		log.Warn("log file fallback active, logging to stdout only", "requestedFile", cfg.LogFile)
	}
}

// runCompositor wires up the three cooperating goroutines spec'd for the
// compositor process: the graphics loop (owns the Renderer, ticks the
// DisplayServer), the network loop (internal/compositor's server loop), and
// this goroutine, which just waits for a shutdown signal and joins both.
func runCompositor() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	initLogging(cfg)
	log.Info("starting prism compositor", "version", version, "socket", cfg.SocketPath)

	disp := display.New(cfg.ScreenWidth, cfg.ScreenHeight)
	disp.SetupRenderer(headlessrenderer.New())

	listener, err := compositor.SetupListener(cfg.SocketPath)
	if err != nil {
		log.Error("failed to set up listener", "error", err)
		os.Exit(1)
	}

	handler := compositor.NewDisplayHandler(disp)

	tableCfg := conntable.Config{
		PollTimeout:         time.Millisecond,
		ReadTimeout:         cfg.ReadTimeout(),
		WriteTimeout:        cfg.WriteTimeout(),
		StaleThreshold:      cfg.StaleConnectionThreshold(),
		ErrorThreshold:      cfg.ConnectionErrorThreshold,
		MaxRecoveryAttempts: cfg.MaxRecoveryAttempts,
	}
	table := conntable.New(listener, cfg.SocketPath, handler, tableCfg)

	netHandle := compositor.Start(table)

	graphicsDone := make(chan struct{})
	graphicsStop := make(chan struct{})
	go runGraphicsLoop(disp, cfg.TickInterval(), graphicsStop, graphicsDone)

	log.Info("prism compositor is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGQUIT)
	<-sigChan
	log.Info("shutting down prism compositor")

	close(graphicsStop)
	<-graphicsDone

	netHandle.Stop()
	disp.Cleanup()

	log.Info("prism compositor stopped")
}

// runGraphicsLoop is the foreground thread spec'd to own the Renderer: it
// ticks the DisplayServer at the configured rate until told to stop. Input
// events from a real windowing backend would be translated into
// UpdateMousePos/UpdateButtonState/UpdateMouseWheelDelta calls here; no such
// backend exists in this module (see package docs on headlessrenderer).
func runGraphicsLoop(disp *display.DisplayServer, interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		disp.Tick()
		time.Sleep(interval)
	}
}
