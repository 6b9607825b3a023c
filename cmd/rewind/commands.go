package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rewind/pkg/backup"
	"github.com/arthur-debert/rewind/pkg/config"
	"github.com/arthur-debert/rewind/pkg/display"
	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/filesystem"
	"github.com/arthur-debert/rewind/pkg/journal"
	"github.com/arthur-debert/rewind/pkg/paths"
	"github.com/arthur-debert/rewind/pkg/recorder"
	"github.com/arthur-debert/rewind/pkg/synthfs"
	"github.com/arthur-debert/rewind/pkg/tracker"
	"github.com/arthur-debert/rewind/pkg/types"
)

// app bundles the wired-up components a command needs.
type app struct {
	cfg     *config.Config
	pather  types.Pather
	fs      types.FS
	tracker *tracker.Tracker
	journal *journal.Journal
	rec     *recorder.Recorder
	colored bool
	cascade bool
}

// newApp resolves paths and config, loads the journal, and rebuilds
// the tracker from it. cascadeSet marks an explicit --cascade flag,
// which overrides the configured default.
func newApp(cascadeSet bool) (*app, error) {
	p := paths.New()
	cfg, err := config.Load(p)
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()

	backupDir := cfg.Backups.Dir
	if backupDir == "" {
		backupDir = p.BackupsDir()
	}
	journalPath := cfg.Journal.Path
	if journalPath == "" {
		journalPath = p.JournalFile()
	}

	useCascade := cfg.Undo.Cascade
	if cascadeSet {
		useCascade = cascade
	}

	tr := tracker.New(tracker.Options{
		FS:        fs,
		BackupDir: backupDir,
		Backups:   backup.NewStore(fs, backupDir),
		Cascade:   useCascade,
	})

	j := journal.New(fs, journalPath)
	ops, err := j.Load()
	if err != nil {
		return nil, err
	}
	for _, op := range ops {
		if err := tr.Record(op); err != nil {
			return nil, errors.Wrapf(err, errors.ErrJournalLoad,
				"journal entry %s could not be restored", op.ID)
		}
	}

	return &app{
		cfg:     cfg,
		pather:  p,
		fs:      fs,
		tracker: tr,
		journal: j,
		rec:     recorder.New(tr, j, synthfs.NewExecutor(false), fs),
		colored: display.ColorEnabled(cfg.Display.Color),
		cascade: useCascade,
	}, nil
}

// resolveID matches a full id or a unique prefix against the journal.
func (a *app) resolveID(arg string) (string, error) {
	if a.tracker.Get(arg) != nil {
		return arg, nil
	}
	var matches []string
	for _, op := range a.tracker.Operations() {
		if strings.HasPrefix(op.ID, arg) {
			matches = append(matches, op.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.Newf(errors.ErrOpNotFound, "no operation matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "%q matches %d operations; use more of the id", arg, len(matches))
	}
}

// save persists the journal after status transitions.
func (a *app) save() error {
	return a.journal.Save(a.tracker.Operations())
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: MsgLogShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}

		statusFilter, _ := cmd.Flags().GetString("status")
		ops := a.tracker.Operations()
		if statusFilter != "" {
			filtered := ops[:0:0]
			for _, op := range ops {
				if string(op.Status) == statusFilter {
					filtered = append(filtered, op)
				}
			}
			ops = filtered
		}

		display.RenderLog(cmd.OutOrStdout(), ops, a.colored)
		return nil
	},
}

// reverse drives an undo or redo end to end: resolve the id, confirm
// a cascade when configured to, run it, persist, and report.
func reverse(cmd *cobra.Command, arg string, undo bool) error {
	a, err := newApp(cmd.Flags().Changed("cascade"))
	if err != nil {
		return err
	}
	id, err := a.resolveID(arg)
	if err != nil {
		return err
	}

	verb := "redo"
	if undo {
		verb = "undo"
	}

	if a.cascade && a.cfg.Undo.ConfirmCascade && isatty.IsTerminal(os.Stdin.Fd()) {
		var p types.Preview
		if undo {
			p, err = a.tracker.PreviewUndo(id)
		} else {
			p, err = a.tracker.PreviewRedo(id)
		}
		if err != nil {
			return err
		}
		if len(p.CascadingOperations) > 0 {
			ok, err := display.ConfirmCascade(verb, p.CascadingOperations)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprint(cmd.OutOrStdout(), MsgCascadeSkip)
				return nil
			}
		}
	}

	var res types.Result
	if undo {
		res = a.tracker.Undo(id)
	} else {
		res = a.tracker.Redo(id)
	}

	// Failed attempts also persist: the operation carries its error.
	if err := a.save(); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(errors.ErrUnknown, res.Message)
	}

	format := MsgRedone
	if undo {
		format = MsgUndone
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, res.Message)
	if res.BackupPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), MsgBackupNote, res.BackupPath)
	}
	if res.Partial {
		fmt.Fprintf(cmd.OutOrStdout(), MsgPartialNote, "some sub-steps were skipped; see message above")
	}
	return nil
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: MsgUndoShort,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reverse(cmd, args[0], true)
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo <id>",
	Short: MsgRedoShort,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reverse(cmd, args[0], false)
	},
}

var previewCmd = &cobra.Command{
	Use:       "preview undo|redo <id>",
	Short:     MsgPreviewShort,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"undo", "redo"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		id, err := a.resolveID(args[1])
		if err != nil {
			return err
		}

		var p types.Preview
		switch args[0] {
		case "undo":
			p, err = a.tracker.PreviewUndo(id)
		case "redo":
			p, err = a.tracker.PreviewRedo(id)
		default:
			return errors.Newf(errors.ErrInvalidInput, "preview direction must be undo or redo, got %q", args[0])
		}
		if err != nil {
			return err
		}

		out, err := display.RenderPreview(args[0], p, a.colored)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: MsgExportShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		var out []byte
		switch format {
		case "json":
			out, err = journal.ExportJSON(a.tracker.Operations())
		case "yaml":
			out, err = journal.ExportYAML(a.tracker.Operations())
		default:
			return errors.Newf(errors.ErrInvalidInput, "unsupported export format %q", format)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: MsgGenconfigShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := paths.New()
		target := paths.ConfigFile(p)
		if _, err := os.Stat(target); err == nil {
			return errors.Newf(errors.ErrAlreadyExists, "config file already exists at %s", target)
		}

		data, err := config.Default().TOML()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(p.ConfigDir(), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to create config directory %s", p.ConfigDir())
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to write %s", target)
		}
		fmt.Fprintf(cmd.OutOrStdout(), MsgConfigSaved, target)
		return nil
	},
}

func init() {
	logCmd.Flags().String("status", "", MsgFlagStatus)
	undoCmd.Flags().BoolVar(&cascade, "cascade", false, MsgFlagCascade)
	redoCmd.Flags().BoolVar(&cascade, "cascade", false, MsgFlagCascade)
	exportCmd.Flags().String("format", "json", MsgFlagFormat)
}
