package ccstart

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Start Claude Code with a cc-switch provider"
	MsgRunShort        = "Start claude with the settings of a provider"
	MsgListShort       = "List providers with a settings file"
	MsgUpdateShort     = "Rewrite all provider settings files"
	MsgSyncShort       = "Write changed provider settings files"
	MsgInitShort       = "Create settings files from config.json"
	MsgConfigShort     = "Show the effective configuration"
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	// Status messages
	MsgUsingSettings      = "Using settings: %s"
	MsgAvailableProviders = "Available providers:"
	MsgProviderItem       = "  %s"
	MsgReadingSource      = "Reading providers from %s"
	MsgWritten            = "✓ %s -> %s"
	MsgRemoved            = "✓ removed %s"
	MsgUpdateEmpty        = "No providers found in %s, nothing to do"
	MsgUpdateDone         = "Done: %d written, %d removed"
	MsgSyncDone           = "Done: %d added, %d updated, %d unchanged, %d removed"
	MsgSyncItem           = "  %s %s"
	MsgInitExisting       = "The directory %s already exists"
	MsgInitConfirm        = "Overwrite existing files?"
	MsgInitCancelled      = "Init cancelled."
	MsgInitDone           = "Done: %d provider(s) written to %s"
	MsgConfigWritten      = "Wrote %s"
	MsgConfigSkipped      = "%s already exists, not overwriting"
	MsgVersionFormat      = "ccstart version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoProvider   = "no provider specified"
	MsgErrCleanup      = "some stale files could not be removed"
	MsgErrUnknownShell = "unknown shell %q (want bash, zsh, fish or powershell)"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagBaseDir  = "Directory shared with cc-switch (default ~/.cc-switch)"
	MsgFlagSource   = "Provider source: sqlite or json"
	MsgFlagDatabase = "Path to cc-switch.db"
	MsgFlagNoColor  = "Disable colored output"
	MsgFlagFormat   = "Output format"
	MsgFlagForce    = "Overwrite existing files without asking"
	MsgFlagTemplate = "Print a commented configuration file"
	MsgFlagWrite    = "Write the configuration template to the config directory"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/list-long.txt
	msgListLongRaw string
	MsgListLong    = strings.TrimSpace(msgListLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/config-example.txt
	msgConfigExampleRaw string
	MsgConfigExample    = strings.TrimRight(msgConfigExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
