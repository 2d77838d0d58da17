package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var errPasscodeConfirmation = errors.New("passcodes do not match")

// NewPasscodeCommand creates the passcode command group.
func NewPasscodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passcode",
		Short: "Manage the journal passcode",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Set a new passcode, read twice from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, rootOpts, func(rt *appRuntime) error {
				passcode, err := promptNewPasscode(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				if err := rt.passcodes.Set(commandContext(cmd), passcode); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Passcode updated. Existing sessions are signed out.")
				return nil
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Replace the passcode with a random temporary one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, rootOpts, func(rt *appRuntime) error {
				temporary, err := rt.passcodes.Reset(commandContext(cmd))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Passcode reset successful")
				fmt.Fprintf(out, "Temporary passcode: %s\n", temporary)
				fmt.Fprintln(out, "Change it after signing in.")
				return nil
			})
		},
	}

	cmd.AddCommand(set, reset)
	return cmd
}

// promptNewPasscode reads the passcode and its confirmation. A terminal on
// stdin gets no echo; anything else is read line by line.
func promptNewPasscode(in io.Reader, prompt io.Writer) (string, error) {
	read := lineReader(in)
	if file, ok := in.(*os.File); ok {
		read = noEchoReader(file, prompt)
	}

	fmt.Fprint(prompt, "New passcode: ")
	first, err := read()
	if err != nil {
		return "", fmt.Errorf("read passcode: %w", err)
	}
	fmt.Fprint(prompt, "Repeat passcode: ")
	second, err := read()
	if err != nil {
		return "", fmt.Errorf("read passcode: %w", err)
	}
	if first != second {
		return "", errPasscodeConfirmation
	}
	return first, nil
}

// noEchoReader turns terminal echo off around each line. Files that are not
// terminals are read the same way, just with echo left alone.
func noEchoReader(file *os.File, prompt io.Writer) func() (string, error) {
	read := lineReader(file)
	return func() (string, error) {
		restore, err := suppressEcho(file)
		if err != nil {
			return read()
		}
		line, readErr := read()
		restore()
		fmt.Fprintln(prompt)
		return line, readErr
	}
}

func lineReader(in io.Reader) func() (string, error) {
	reader := bufio.NewReader(in)
	return func() (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
