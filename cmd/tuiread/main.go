// Package main provides the CLI entrypoint for tuiread.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/event"
	"github.com/verte-zerg/tuiread/internal/loop"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/reader"
	"github.com/verte-zerg/tuiread/internal/stats"
	"github.com/verte-zerg/tuiread/internal/tui"
	"github.com/verte-zerg/tuiread/internal/words"
)

const (
	defaultWPM        = 300
	defaultPreceding  = 3
	defaultSucceeding = 3
	keyBuffer         = 32
)

var (
	readWPM        int
	readResume     int
	readPreceding  int
	readSucceeding int
	readConfigPath string
	readLogFile    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiread [file]",
		Short:         "Terminal speed reader",
		Long:          "Show a text one word at a time. Reads the file argument, or standard input when it is piped.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().IntVarP(&readWPM, "wpm", "w", defaultWPM, "words per minute")
	rootCmd.Flags().IntVarP(&readResume, "resume", "r", 0, "index of the word to start from")
	rootCmd.Flags().IntVarP(&readPreceding, "preceding", "p", defaultPreceding, "context words shown before the current word while paused")
	rootCmd.Flags().IntVarP(&readSucceeding, "succeeding", "s", defaultSucceeding, "context words shown after the current word while paused")
	rootCmd.Flags().StringVar(&readConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/tuiread/config.toml)")
	rootCmd.Flags().StringVar(&readLogFile, "log-file", "", "write diagnostics to this file")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	configPath := readConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &readWPM, fileCfg.Reader.WPM)
	applyIntConfig(cmd, "preceding", &readPreceding, fileCfg.Reader.Preceding)
	applyIntConfig(cmd, "succeeding", &readSucceeding, fileCfg.Reader.Succeeding)

	cfg := model.Config{
		WPM:        readWPM,
		Resume:     readResume,
		Preceding:  readPreceding,
		Succeeding: readSucceeding,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	seq, err := loadText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if cfg.Resume >= seq.Len() {
		return fmt.Errorf("--resume must be < %d (number of words)", seq.Len())
	}

	closeLog, err := setupLogging(readLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := model.Progress{Index: cfg.Resume, WPM: cfg.WPM}
	began := time.Now()
	final, err := runSession(ctx, seq, cfg)
	elapsed := time.Since(began)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printResumeHint(out, final); err != nil {
		return err
	}
	summary := stats.Summarize(start, final, seq.Len(), elapsed)
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderSummary(out, summary)
}

// runSession wires the terminal program, the event source and the reader,
// then drives the control loop until the reader quits.
func runSession(ctx context.Context, seq words.Sequence, cfg model.Config) (model.Progress, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := event.NewFeed(keyBuffer)
	src := event.NewSource(ctx, feed, event.WithLogger(log.Default()))
	defer src.Close()

	r, err := reader.New(seq, cfg.Resume, cfg.WPM, src)
	if err != nil {
		return model.Progress{}, fmt.Errorf("failed to create reader: %w", err)
	}

	keys := loop.DefaultKeyMap()
	program := tea.NewProgram(
		tui.NewModel(feed, keys),
		tea.WithAltScreen(),
		tea.WithInputTTY(),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	done := make(chan struct{})
	var programErr error
	go func() {
		defer close(done)
		_, programErr = program.Run()
		// The loop stops with the program, whichever ends first.
		cancel()
	}()

	if err := r.Start(); err != nil {
		cancel()
		<-done
		return r.Progress(), fmt.Errorf("failed to start reader: %w", err)
	}

	progress, loopErr := loop.Run(ctx, r, src, tui.NewRenderer(program, done), loop.Options{
		Preceding:  cfg.Preceding,
		Succeeding: cfg.Succeeding,
		Keys:       keys,
		Logger:     log.Default(),
	})
	log.Printf("loop finished at word %d, %d wpm", progress.Index, progress.WPM)

	feed.Close()
	src.Close()
	program.Quit()
	<-done

	if loopErr != nil && !errors.Is(loopErr, tui.ErrProgramExited) {
		return progress, loopErr
	}
	if programErr != nil && !errors.Is(programErr, tea.ErrProgramKilled) {
		return progress, fmt.Errorf("failed to run TUI: %w", programErr)
	}
	return progress, nil
}

func loadText(stdin io.Reader, args []string) (words.Sequence, error) {
	if len(args) > 0 && args[0] != "-" {
		seq, err := words.Load(args[0])
		if err != nil {
			return words.Sequence{}, fmt.Errorf("failed to load text: %w", err)
		}
		return seq, nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return words.Sequence{}, fmt.Errorf("no input: pass a file or pipe text to stdin")
	}
	seq, err := words.Read(stdin)
	if err != nil {
		return words.Sequence{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return seq, nil
}

func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "tuiread")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func printResumeHint(w io.Writer, p model.Progress) error {
	if _, err := fmt.Fprintf(w, "to resume from this point, run with flag `-r %d`.\n", p.Index); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(w, "to resume with this speed, run with flag `-w %d`.\n", p.WPM); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := readConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiread configuration
# Uncomment a value to enable it. CLI flags override config values.

[reader]
# wpm = %d               # Words per minute
# preceding = %d           # Context words shown before the current word while paused
# succeeding = %d          # Context words shown after the current word while paused
`,
		defaultWPM,
		defaultPreceding,
		defaultSucceeding,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.WPM < reader.MinWPM {
		return fmt.Errorf("--wpm must be >= %d", reader.MinWPM)
	}
	if cfg.WPM > reader.MaxWPM {
		return fmt.Errorf("--wpm must be <= %d", reader.MaxWPM)
	}
	if cfg.Resume < 0 {
		return fmt.Errorf("--resume must be >= 0")
	}
	if cfg.Preceding < 0 {
		return fmt.Errorf("--preceding must be >= 0")
	}
	if cfg.Succeeding < 0 {
		return fmt.Errorf("--succeeding must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
