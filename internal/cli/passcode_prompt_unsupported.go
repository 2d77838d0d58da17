//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func suppressEcho(*os.File) (func(), error) {
	return nil, errors.New("echo control not available on this platform")
}
