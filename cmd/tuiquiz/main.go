// Package main provides the CLI entrypoint for tuiquiz.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiquiz/internal/bank"
	"github.com/verte-zerg/tuiquiz/internal/config"
	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/prompt"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
	"github.com/verte-zerg/tuiquiz/internal/report"
	"github.com/verte-zerg/tuiquiz/internal/store"
	"github.com/verte-zerg/tuiquiz/internal/tui"
)

const (
	defaultMode         = "range"
	defaultRecallWindow = 1
)

var (
	practiceBankDir      string
	practiceBank         string
	practiceMode         string
	practiceStart        int
	practiceEnd          int
	practiceCount        int
	practiceSeed         int64
	practiceRecallWindow int
	practicePlain        bool

	reviewBankDir string
	reviewBank    string

	banksDir string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiquiz",
		Short:         "Terminal quiz trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceBankDir, "bank-dir", config.DefaultBankDir(), "directory with question banks")
	rootCmd.Flags().StringVar(&practiceBank, "bank", "", "question bank file name or path")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "selection mode: range, recall or random")
	rootCmd.Flags().IntVar(&practiceStart, "start", 0, "first question of the range (default: 1)")
	rootCmd.Flags().IntVar(&practiceEnd, "end", 0, "last question of the range (default: bank size)")
	rootCmd.Flags().IntVar(&practiceCount, "count", 0, "questions to sample in random mode (default: whole bank)")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for reproducible samples (default: from the clock)")
	rootCmd.Flags().IntVar(&practiceRecallWindow, "recall-window", defaultRecallWindow, "recent sessions whose misses feed recall mode")
	rootCmd.Flags().BoolVar(&practicePlain, "plain", false, "use the line prompt instead of the TUI")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBanksCmd())
	rootCmd.AddCommand(newReviewCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "bank-dir", &practiceBankDir, fileCfg.Quiz.BankDir)
	applyStringConfig(cmd, "bank", &practiceBank, fileCfg.Quiz.Bank)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Quiz.Mode)
	applyIntConfig(cmd, "start", &practiceStart, fileCfg.Quiz.Start)
	applyIntConfig(cmd, "end", &practiceEnd, fileCfg.Quiz.End)
	applyIntConfig(cmd, "count", &practiceCount, fileCfg.Quiz.Count)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Quiz.Seed)
	applyIntConfig(cmd, "recall-window", &practiceRecallWindow, fileCfg.Quiz.RecallWindow)

	mode, err := quiz.ParseMode(practiceMode)
	if err != nil {
		return err
	}
	var seed *int64
	if cmd.Flags().Changed("seed") || fileCfg.Quiz.Seed != nil {
		seed = &practiceSeed
	}
	cfg := model.Config{
		BankDir:      practiceBankDir,
		Bank:         practiceBank,
		Mode:         mode,
		Start:        practiceStart,
		End:          practiceEnd,
		Count:        practiceCount,
		Seed:         seed,
		RecallWindow: practiceRecallWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	bankPath, err := resolveBankPath(cfg.BankDir, cfg.Bank)
	if err != nil {
		return err
	}
	questions, err := bank.Load(bankPath)
	if err != nil {
		return fmt.Errorf("failed to load question bank %s: %w", bankPath, err)
	}
	bankName := bank.Name(bankPath)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if practicePlain || !isTerminal(cmd.InOrStdin()) {
		return runPrompt(cmd, cfg, bankName, questions, st)
	}

	m := tui.NewModel(tui.Options{
		Config:   cfg,
		Bank:     questions,
		BankName: bankName,
		History:  st,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runPrompt(cmd *cobra.Command, cfg model.Config, bankName string, questions []model.Question, st *store.Store) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	params := quiz.Params{
		Mode:  cfg.Mode,
		Start: cfg.Start,
		End:   cfg.End,
		Count: cfg.Count,
		Seed:  cfg.Seed,
	}
	if cfg.Mode == model.ModeRecall {
		memory, err := st.RecallMemory(ctx, bankName, cfg.RecallWindow)
		if err != nil {
			return fmt.Errorf("failed to load recall memory: %w", err)
		}
		params.Memory = memory
	}
	items, err := quiz.Select(questions, params)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	sum, err := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx, items)
	if err != nil {
		return err
	}
	rec := model.SessionRecord{
		Bank:      bankName,
		Mode:      cfg.Mode,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Summary:   sum,
	}
	if _, err := st.SaveSession(ctx, rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
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
	path := config.DefaultConfigPath()
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

func newBanksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "List question banks",
		Args:  cobra.NoArgs,
		RunE:  runBanksCmd,
	}
	cmd.Flags().StringVar(&banksDir, "bank-dir", config.DefaultBankDir(), "directory with question banks")
	return cmd
}

func runBanksCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "bank-dir", &banksDir, fileCfg.Quiz.BankDir)

	names, err := bank.List(banksDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No question banks found. Add .json or .yaml files to %s\n", banksDir)
			return fmt.Errorf("bank directory does not exist")
		}
		return fmt.Errorf("failed to read bank directory: %w", err)
	}
	if len(names) == 0 {
		logErrf("No question banks found. Add .json or .yaml files to %s\n", banksDir)
		return fmt.Errorf("no question banks found")
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show the wrong answers of the last session",
		Args:  cobra.NoArgs,
		RunE:  runReviewCmd,
	}
	cmd.Flags().StringVar(&reviewBankDir, "bank-dir", config.DefaultBankDir(), "directory with question banks")
	cmd.Flags().StringVar(&reviewBank, "bank", "", "question bank file name or path")
	return cmd
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "bank-dir", &reviewBankDir, fileCfg.Quiz.BankDir)
	applyStringConfig(cmd, "bank", &reviewBank, fileCfg.Quiz.Bank)

	bankPath, err := resolveBankPath(reviewBankDir, reviewBank)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rec, ok, err := st.LastSession(cmd.Context(), bank.Name(bankPath))
	if err != nil {
		return fmt.Errorf("failed to load last session: %w", err)
	}
	out := cmd.OutOrStdout()
	if !ok {
		if _, err := fmt.Fprintln(out, "No sessions found."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	header := fmt.Sprintf("%s · %s mode · %s", filepath.Base(rec.Bank), rec.Mode, rec.EndedAt.Local().Format("2006-01-02 15:04"))
	if _, err := fmt.Fprintf(out, "%s\n\n", header); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderSummary(out, rec.Summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderReview(out, rec.Summary.ReviewItems); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// resolveBankPath picks the bank to use. Without a name the directory must
// hold exactly one bank.
func resolveBankPath(dir, name string) (string, error) {
	if strings.TrimSpace(name) != "" {
		return bank.Resolve(dir, name), nil
	}
	names, err := bank.List(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read bank directory: %w", err)
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no question banks found in %s (use --bank or --bank-dir)", dir)
	case 1:
		return filepath.Join(dir, names[0]), nil
	default:
		return "", fmt.Errorf("multiple question banks found, choose one with --bank: %s", strings.Join(names, ", "))
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiquiz configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# bank-dir = %q
# bank = "aws.json"       # Bank file name in bank-dir, or a path
# mode = %q            # range, recall or random
# start = 1               # First question of the range
# end = 10                # Last question of the range
# count = 0               # Questions to sample in random mode (0 = whole bank)
# seed = 42               # Random seed; unset seeds from the clock
# recall-window = %d       # Recent sessions whose misses feed recall mode
`,
		config.DefaultBankDir(),
		defaultMode,
		defaultRecallWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Start < 0 {
		return fmt.Errorf("--start must be >= 0")
	}
	if cfg.End < 0 {
		return fmt.Errorf("--end must be >= 0")
	}
	if cfg.Count < 0 {
		return fmt.Errorf("--count must be >= 0")
	}
	if cfg.RecallWindow < 1 {
		return fmt.Errorf("--recall-window must be > 0")
	}
	if strings.TrimSpace(cfg.BankDir) == "" && strings.TrimSpace(cfg.Bank) == "" {
		return fmt.Errorf("--bank-dir must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
