package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ppiankov/tgagent/internal/access"
	"github.com/ppiankov/tgagent/internal/audit"
	"github.com/ppiankov/tgagent/internal/bot"
	"github.com/ppiankov/tgagent/internal/config"
	"github.com/ppiankov/tgagent/internal/executor"
	"github.com/ppiankov/tgagent/internal/llm"
	"github.com/ppiankov/tgagent/internal/pending"
	"github.com/ppiankov/tgagent/internal/plan"
	"github.com/ppiankov/tgagent/internal/sandbox"
	"github.com/ppiankov/tgagent/internal/telegram"
)

var (
	runConfig    string
	runWorkspace string
	runAuditLog  string
	runLogLevel  string
	runLogFormat string
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runConfig, "config", "", "Path to config YAML (default $"+config.EnvConfig+")")
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "Workspace directory (default $"+config.EnvWorkspace+" or current directory)")
	runCmd.Flags().StringVar(&runAuditLog, "audit-log", "", "Path to audit log JSONL file")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runLogFormat, "log-format", "", "Log format (text, json)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram agent",
	Long: "Long-polls Telegram and serves the configured user. Requires\n" +
		config.EnvBotToken + " and " + config.EnvUserID + "; /ask additionally needs " + config.EnvLLMKey + ".",
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func loadRunConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath(runConfig))
	if err != nil {
		return nil, err
	}
	if runWorkspace != "" {
		cfg.Workspace = runWorkspace
	}
	if runAuditLog != "" {
		cfg.AuditLog = runAuditLog
	}
	if runLogLevel != "" {
		cfg.LogLevel = runLogLevel
	}
	if runLogFormat != "" {
		cfg.LogFormat = runLogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	table, err := cfg.CommandTable()
	if err != nil {
		return err
	}
	sb, err := sandbox.New(cfg.Workspace)
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}

	store := pending.NewMemory()
	exec := &executor.Executor{
		Workdir:    sb.Root(),
		Timeout:    cfg.CommandTimeout,
		Store:      store,
		Runner:     executor.ExecRunner{},
		Sandbox:    sb,
		ConfigHash: cfg.Hash,
		Log:        log,
	}
	if cfg.AuditLog != "" {
		auditLog, err := audit.Open(cfg.AuditLog)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer auditLog.Close()
		exec.Audit = auditLog
	}

	asker := llm.New(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, log)
	if !asker.Configured() {
		log.Warnf("%s not set, /ask is disabled", config.EnvLLMKey)
	}

	tg, err := telegram.New(cfg.BotToken, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := tg.Events(ctx)
	if err != nil {
		return err
	}

	d := &bot.Dispatcher{
		Guard:    access.Guard{UserID: cfg.UserID},
		Commands: table,
		Builder:  &plan.Builder{Commands: table, Sandbox: sb, Store: store},
		Executor: exec,
		LLM:      asker,
		Reply:    tg,
		Log:      log,
	}

	fmt.Fprintf(os.Stderr, "tgagent %s serving %s\n", version, sb.Root())
	log.WithFields(logrus.Fields{
		"user_id":  cfg.UserID,
		"commands": table.Len(),
		"audit":    cfg.AuditLog,
	}).Info("agent started")

	err = d.Run(ctx, events)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nShutting down tgagent...")
		return nil
	}
	return err
}
