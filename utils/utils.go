// Package utils holds the small helpers shared by the shell commands:
// parsing of --key:value arguments and interactive prompts.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var helpRegex = regexp.MustCompile(`^--help$|^-h$`)

// WantsHelp reports whether any arg is --help or -h.
func WantsHelp(args []string) bool {
	for _, arg := range args {
		if helpRegex.MatchString(arg) {
			return true
		}
	}
	return false
}

// Flag returns the value of the first --name:value arg.
func Flag(args []string, name string) (string, bool) {
	prefix := "--" + name + ":"
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix), true
		}
	}
	return "", false
}

// Positional returns the args that are not flags.
func Positional(args []string) []string {
	var out []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") || helpRegex.MatchString(arg) {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// Ask prints label and reads one trimmed line from r. It returns "" once
// the input is exhausted.
func Ask(r *bufio.Reader, w io.Writer, label string) string {
	fmt.Fprint(w, label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
