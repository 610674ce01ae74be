package run

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/ccstart/pkg/commands"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/arthur-debert/ccstart/pkg/materialize"
)

// Options defines the options for the Run command.
type Options struct {
	// Name is the provider to launch with.
	Name string

	// Args are passed through to the launched program after the settings flag.
	Args []string

	// Stdio for the launched program; nil means the process' own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launch describes a resolved invocation
type Launch struct {
	Name         string
	SettingsPath string
	Command      string
	Args         []string
}

// Result is returned after the launched program exits
type Result struct {
	Launch
	ExitCode int
}

// Prepare resolves the provider by name and makes sure its settings file is
// current. A provider missing from the source is a NOT_FOUND error whose
// "available" detail lists the names that do exist.
func Prepare(ctx context.Context, env *commands.Env, name string) (*Launch, error) {
	log := logging.GetLogger("commands.run")
	log.Debug().Str("command", "Run").Str("provider", name).Msg("Executing command")

	src, err := env.Source()
	if err != nil {
		return nil, err
	}

	rec, found, err := src.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(ctx, env, name)
	}

	path, err := env.Cache().EnsureCached(materialize.EntryFor(rec))
	if err != nil {
		return nil, err
	}

	launch := &Launch{
		Name:         name,
		SettingsPath: path,
		Command:      env.Config.Launch.Command,
	}
	if flag := env.Config.Launch.SettingsFlag; flag != "" {
		launch.Args = append(launch.Args, flag)
	}
	launch.Args = append(launch.Args, path)
	return launch, nil
}

func notFound(ctx context.Context, env *commands.Env, name string) error {
	err := errors.Newf(errors.ErrNotFound, "provider '%s' not found", name).WithDetail("provider", name)

	src, srcErr := env.Source()
	if srcErr != nil {
		return err
	}
	names, listErr := src.ListNames(ctx)
	if listErr != nil {
		return err
	}
	if len(names) == 0 {
		return err.WithDetail("hint", "no providers are configured yet; add one in cc-switch first")
	}
	return err.WithDetail("available", names)
}

// Run resolves the provider and runs the configured program with its
// settings file, waiting for it to exit. The program's exit status is
// returned in Result.ExitCode; a death by signal N is reported as 128+N.
func Run(ctx context.Context, env *commands.Env, opts Options) (*Result, error) {
	launch, err := Prepare(ctx, env, opts.Name)
	if err != nil {
		return nil, err
	}
	launch.Args = append(launch.Args, opts.Args...)

	code, err := Exec(launch.Command, launch.Args, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("commands.run")
	logger.Info().
		Str("command", "Run").
		Str("provider", launch.Name).
		Int("exitCode", code).
		Msg("Command finished")
	return &Result{Launch: *launch, ExitCode: code}, nil
}

// Exec starts command with args and the given stdio and waits for it. Only
// failures to start the program are returned as errors.
func Exec(command string, args []string, opts Options) (int, error) {
	logging.LogCommand(command, args)

	cmd := exec.Command(command, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	// The child shares the terminal and handles Ctrl-C itself; ccstart
	// stays alive to relay its exit status.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitCode(exitErr), nil
	}

	return 0, errors.Wrapf(err, errors.ErrExec, "failed to run '%s'", command).
		WithDetail("command", command).
		WithDetail("hint", "make sure '"+command+"' is installed and on your PATH")
}

func exitCode(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		logger := logging.GetLogger("commands.run")
		logger.Warn().
			Str("signal", status.Signal().String()).
			Msg("Launched program was terminated by a signal")
		return 128 + int(status.Signal())
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return errors.ExitFailure
}
