package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "A reversible journal for agent filesystem actions"
	MsgLogShort       = "List recorded operations"
	MsgUndoShort      = "Revert a recorded operation"
	MsgRedoShort      = "Re-apply an undone operation"
	MsgPreviewShort   = "Show what an undo or redo would do, without doing it"
	MsgExportShort    = "Export the journal as JSON or YAML"
	MsgGenconfigShort = "Write a default configuration file"
	MsgDoShort        = "Perform a filesystem action and record it"
	MsgVersionShort   = "Print version information"

	// Status messages
	MsgUndone      = "Undone: %s\n"
	MsgRedone      = "Redone: %s\n"
	MsgRecorded    = "Recorded %s: %s\n"
	MsgBackupNote  = "  backup: %s\n"
	MsgPartialNote = "  note: %s\n"
	MsgCascadeSkip = "Cancelled.\n"
	MsgConfigSaved = "Wrote default configuration to %s\n"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagCascade = "Recursively undo/redo dependent operations"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagStatus  = "Only show operations with this status"
	MsgFlagFormat  = "Export format: json or yaml"
	MsgFlagAll     = "Replace every occurrence, not just the first"
)
