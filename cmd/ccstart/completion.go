package ccstart

import (
	"io"

	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/spf13/cobra"
)

// GenCompletion writes the completion script for shell
func GenCompletion(rootCmd *cobra.Command, w io.Writer, shell string) error {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(w)
	case "fish":
		err = rootCmd.GenFishCompletion(w, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownShell, shell)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrWrite, "failed to generate %s completion", shell)
	}
	return nil
}
