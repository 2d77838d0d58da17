//go:build windows

package cli

import (
	"os"

	"golang.org/x/sys/windows"
)

func suppressEcho(file *os.File) (func(), error) {
	console := windows.Handle(file.Fd())
	var saved uint32
	if err := windows.GetConsoleMode(console, &saved); err != nil {
		return nil, err
	}
	if err := windows.SetConsoleMode(console, saved&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, err
	}
	return func() {
		_ = windows.SetConsoleMode(console, saved)
	}, nil
}
