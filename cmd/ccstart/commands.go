package ccstart

import (
	"fmt"

	"github.com/arthur-debert/ccstart/internal/version"
	"github.com/arthur-debert/ccstart/pkg/commands/genconfig"
	"github.com/arthur-debert/ccstart/pkg/commands/initialize"
	"github.com/arthur-debert/ccstart/pkg/commands/list"
	"github.com/arthur-debert/ccstart/pkg/commands/run"
	"github.com/arthur-debert/ccstart/pkg/commands/sync"
	"github.com/arthur-debert/ccstart/pkg/commands/update"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runProvider launches the configured program with the provider's settings
func (a *app) runProvider(cmd *cobra.Command, name string, args []string) error {
	env, err := a.load(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	launch, err := run.Prepare(cmd.Context(), env, name)
	if err != nil {
		return err
	}

	_, stderr := a.renderers(cmd, env)
	stderr.Muted(MsgUsingSettings, launch.SettingsPath)

	code, err := run.Exec(launch.Command, append(launch.Args, args...), run.Options{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	log.Debug().Str("provider", name).Int("exitCode", code).Msg("Launched program exited")
	if code != 0 {
		return &exitStatus{code: code}
	}
	return nil
}

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run <provider> [args...]",
		Short:             MsgRunShort,
		Long:              MsgRunLong,
		Example:           MsgRunExample,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.providerCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProvider(cmd, args[0], args[1:])
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := list.List(env)
			if err != nil {
				return err
			}
			return list.Write(cmd.OutOrStdout(), result, list.Format(format))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(list.FormatText), MsgFlagFormat+" (text, json, yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(list.FormatText), string(list.FormatJSON), string(list.FormatYAML)},
		cobra.ShellCompDirectiveNoFileComp,
	))
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "update",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := update.Update(cmd.Context(), env)
			if err != nil {
				return err
			}

			_, r := a.renderers(cmd, env)
			if result.Empty {
				r.Warning(MsgUpdateEmpty, result.Source)
				return nil
			}

			r.Muted(MsgReadingSource, result.Source)
			for _, w := range result.Written {
				r.Println(fmt.Sprintf(MsgWritten, r.Name(w.Name), r.Path(w.Path)))
			}
			for _, name := range result.Removed {
				r.Println(fmt.Sprintf(MsgRemoved, r.Name(name)))
			}
			r.Success(MsgUpdateDone, len(result.Written), len(result.Removed))

			if result.CleanupErr != nil {
				return errors.Wrap(result.CleanupErr, errors.ErrWrite, MsgErrCleanup)
			}
			return nil
		},
	}
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := sync.Sync(cmd.Context(), env)
			if err != nil {
				return err
			}

			_, r := a.renderers(cmd, env)
			if result.Empty {
				r.Warning(MsgUpdateEmpty, result.Source)
				return nil
			}

			r.Muted(MsgReadingSource, result.Source)
			for _, group := range []struct {
				mark  string
				names []string
			}{
				{"+", result.Added},
				{"~", result.Updated},
				{"-", result.Removed},
			} {
				for _, name := range group.names {
					r.Println(fmt.Sprintf(MsgSyncItem, group.mark, r.Name(name)))
				}
			}
			r.Success(MsgSyncDone, len(result.Added), len(result.Updated), len(result.Unchanged), len(result.Removed))

			if result.CleanupErr != nil {
				return errors.Wrap(result.CleanupErr, errors.ErrWrite, MsgErrCleanup)
			}
			return nil
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			_, r := a.renderers(cmd, env)
			result, err := initialize.Init(cmd.Context(), env, initialize.Options{
				Force: force,
				Confirm: func(dir string) (bool, error) {
					r.Warning(MsgInitExisting, dir)
					return output.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), MsgInitConfirm)
				},
			})
			if err != nil {
				return err
			}

			if result.Cancelled {
				r.Muted(MsgInitCancelled)
				return nil
			}

			r.Muted(MsgReadingSource, result.Source)
			for _, w := range result.Written {
				r.Println(fmt.Sprintf(MsgWritten, r.Name(w.Name), r.Path(w.Path)))
			}
			r.Success(MsgInitDone, len(result.Written), result.Dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var opts genconfig.GenConfigOptions

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		Example: MsgConfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.load(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := genconfig.GenConfig(env, opts)
			if err != nil {
				return err
			}

			stdout, stderr := a.renderers(cmd, env)
			switch {
			case result.FileWritten != "":
				stderr.Success(MsgConfigWritten, result.FileWritten)
			case result.Skipped != "":
				stderr.Warning(MsgConfigSkipped, result.Skipped)
			default:
				stdout.Printf("%s", result.ConfigContent)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "toml", MsgFlagFormat+" (toml, yaml)")
	cmd.Flags().BoolVar(&opts.Template, "template", false, MsgFlagTemplate)
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, MsgFlagWrite)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp,
	))
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenCompletion(cmd.Root(), cmd.OutOrStdout(), args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
