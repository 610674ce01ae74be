package ccstart

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/arthur-debert/ccstart/internal/version"
	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/filesystem"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/output"
	"github.com/arthur-debert/ccstart/pkg/paths"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the global flag values and the environment built from them.
// The environment is created on first use so that commands like version
// work without a valid configuration.
type app struct {
	verbosity int
	baseDir   string
	source    string
	database  string
	noColor   bool

	env *commands.Env
}

// exitStatus carries the launched program's exit code out of cobra
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "ccstart <provider> [args...]",
		Short:             MsgRootShort,
		Long:              MsgRootLong,
		Example:           MsgRunExample,
		Version:           version.Version,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: a.providerCompletion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogging()
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errors.New(errors.ErrInvalidInput, MsgErrNoProvider)
			}
			return a.runProvider(cmd, args[0], args[1:])
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// everything after the provider name belongs to the launched program
	rootCmd.Flags().SetInterspersed(false)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&a.baseDir, "base-dir", "", MsgFlagBaseDir)
	pf.StringVar(&a.source, "source", "", MsgFlagSource)
	pf.StringVar(&a.database, "database", "", MsgFlagDatabase)
	pf.BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newUpdateCmd(a))
	rootCmd.AddCommand(newSyncCmd(a))
	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, NewRootCmd(), os.Stderr)
}

func execute(ctx context.Context, rootCmd *cobra.Command, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var status *exitStatus
	if stderrors.As(err, &status) {
		return status.code
	}

	mode := config.ColorAuto
	if noColor, _ := rootCmd.PersistentFlags().GetBool("no-color"); noColor {
		mode = config.ColorNever
	}
	renderError(output.NewRenderer(stderr, output.ColorEnabled(mode, stderr)), err)
	return errors.ExitCode(err)
}

// renderError prints err, and the known provider names for a lookup miss
func renderError(r *output.Renderer, err error) {
	r.RenderError(err)

	if !errors.IsErrorCode(err, errors.ErrNotFound) {
		return
	}
	names, ok := errors.GetErrorDetails(err)["available"].([]string)
	if !ok || len(names) == 0 {
		return
	}
	r.Println(MsgAvailableProviders)
	for _, name := range names {
		r.Println(fmt.Sprintf(MsgProviderItem, r.Name(name)))
	}
}

func (a *app) setupLogging() {
	logFile := ""
	if p, err := paths.New(paths.Options{}); err == nil {
		logFile = p.LogFilePath()
	}
	logging.SetupLogger(a.verbosity, logFile)
}

// overrides maps the global flags that were set to configuration keys
func (a *app) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Root().PersistentFlags()
	o := map[string]interface{}{}
	if flags.Changed("base-dir") {
		o["paths.base_dir"] = a.baseDir
	}
	if flags.Changed("source") {
		o["source.mode"] = a.source
	}
	if flags.Changed("database") {
		o["source.database"] = a.database
	}
	if a.noColor {
		o["output.color"] = string(config.ColorNever)
	}
	return o
}

// load builds the command environment: configuration first, then the
// paths it selects.
func (a *app) load(cmd *cobra.Command) (*commands.Env, error) {
	if a.env != nil {
		return a.env, nil
	}

	xdgPaths, err := paths.New(paths.Options{})
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigDir: xdgPaths.ConfigDir(),
		Overrides: a.overrides(cmd),
	})
	if err != nil {
		return nil, err
	}

	opts := paths.Options{DatabasePath: cfg.Source.Database}
	// CCSTART_BASE_DIR wins over the config file, the flag wins over both
	if cmd.Root().PersistentFlags().Changed("base-dir") || os.Getenv(paths.EnvBaseDir) == "" {
		opts.BaseDir = cfg.Paths.BaseDir
	}
	p, err := paths.New(opts)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("base_dir", p.BaseDir()).
		Str("source", string(cfg.Source.Mode)).
		Msg("Environment ready")

	a.env = commands.NewEnv(cfg, p, filesystem.NewOS())
	return a.env, nil
}

func (a *app) close() {
	if a.env == nil {
		return
	}
	if err := a.env.Close(); err != nil {
		log.Debug().Err(err).Msg("Failed to close provider source")
	}
}

// renderers returns styled writers for the command's stdout and stderr
func (a *app) renderers(cmd *cobra.Command, env *commands.Env) (stdout, stderr *output.Renderer) {
	mode := env.Config.Output.Color
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	return output.NewRenderer(out, output.ColorEnabled(mode, out)),
		output.NewRenderer(errOut, output.ColorEnabled(mode, errOut))
}

// providerCompletion completes the provider name, the first argument only
func (a *app) providerCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}

	env, err := a.load(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer a.close()

	return commands.ProviderCompletions(cmd.Context(), env, toComplete), cobra.ShellCompDirectiveNoFileComp
}
