package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/aclsec/pkg/config"
	"github.com/user/aclsec/pkg/logger"
)

// ExitError carries a process exit code out of a command. A nil Err exits
// silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

var (
	DebugMode  bool
	ConfigPath string
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aclsec",
		Short: "Firewall ACL Security Analyzer",
		Long: `aclsec extracts extended access-list rules from firewall configurations
and flags overly permissive rules, broad access and exposed risky ports.
An optional AI assistant explains findings and drafts remediation plans.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDebug(DebugMode)
		},
	}

	root.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&ConfigPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or ~/.aclsec/config.yaml)")

	root.AddCommand(
		newAnalyzeCmd(),
		newChecksCmd(),
		newRemediateCmd(),
		newServeCmd(),
		newConfigCmd(),
		newSetupCmd(),
		newInteractiveCmd(),
	)
	return root
}

// Execute runs the command line and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.SetOutput(stdout, stderr)
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(root.ExecuteContext(ctx))
}

// exitCode maps a command error to 0 (ok), the code of an *ExitError, or 2.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			logger.Errorf("%v", exitErr.Err)
		}
		return exitErr.Code
	}
	logger.Errorf("%v", err)
	return 2
}

func loadConfig() (*config.Config, error) {
	if ConfigPath != "" {
		return config.LoadConfigFrom(ConfigPath)
	}
	return config.LoadConfig()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
