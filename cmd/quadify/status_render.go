package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func colorizeState(state string, colorize bool) string {
	if !colorize {
		return state
	}
	switch state {
	case "active", "activating":
		return ansiGreen + state + ansiReset
	case "failed":
		return ansiRed + state + ansiReset
	}
	return state
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
