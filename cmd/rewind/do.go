package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/rewind/pkg/recorder"
	"github.com/arthur-debert/rewind/pkg/types"
)

// newDoCmd builds the `rewind do` command tree: the producer side of
// the journal. Each subcommand performs one forward action and records
// the matching operation.
func newDoCmd() *cobra.Command {
	doCmd := &cobra.Command{
		Use:   "do",
		Short: MsgDoShort,
		Long: `Perform a filesystem action and record it in the journal so it can be
undone later. Content for 'write' is read from stdin when the argument
is "-".`,
	}
	doCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	writeCmd := &cobra.Command{
		Use:   "write <path> <content>",
		Short: "Write a file and record its creation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := args[1]
			if content == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = string(data)
			}
			return runDo(cmd, fmt.Sprintf("write %s", args[0]), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.WriteFile(args[0], content)
			})
		},
	}

	var replaceAll bool
	editCmd := &cobra.Command{
		Use:   "edit <path> <old> <new>",
		Short: "Replace a substring in a file and record the edit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, fmt.Sprintf("edit %s", args[0]), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.EditFile(args[0], args[1], args[2], replaceAll)
			})
		},
	}
	editCmd.Flags().BoolVar(&replaceAll, "all", false, MsgFlagAll)

	rmCmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file and record its content for undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, fmt.Sprintf("rm %s", args[0]), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.DeleteFile(args[0])
			})
		},
	}

	mvCmd := &cobra.Command{
		Use:   "mv <old> <new>",
		Short: "Move a file and record the rename",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, fmt.Sprintf("mv %s %s", args[0], args[1]), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.Move(args[0], args[1])
			})
		},
	}

	mkdirCmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory and record it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, fmt.Sprintf("mkdir %s", args[0]), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.MakeDir(args[0])
			})
		},
	}

	rmdirCmd := &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Remove a directory tree, recording every file for undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, fmt.Sprintf("rmdir %s", args[0]), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.RemoveDir(args[0])
			})
		},
	}

	execCmd := &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run a shell command and record it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			return runDo(cmd, fmt.Sprintf("exec %q", command), func(r *recorder.Recorder) (*types.Operation, error) {
				return r.Exec(command)
			})
		},
	}

	doCmd.AddCommand(writeCmd, editCmd, rmCmd, mvCmd, mkdirCmd, rmdirCmd, execCmd)
	return doCmd
}

// runDo wires the app, performs the action unless dry-run, and prints
// the recorded operation.
func runDo(cmd *cobra.Command, what string, action func(*recorder.Recorder) (*types.Operation, error)) error {
	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Would %s (dry run, nothing recorded)\n", what)
		return nil
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	op, err := action(a.rec)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), MsgRecorded, op.ID, recorder.Describe(op))
	if op.Status == types.StatusFailed {
		fmt.Fprintf(cmd.OutOrStdout(), MsgPartialNote, "the command exited non-zero; recorded as failed")
	}
	return nil
}
