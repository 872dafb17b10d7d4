package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseArgs parses args against cmd's flags plus any extra ones.
// Errors are written to errOut in CLI form; ok is false if parsing failed.
func ParseArgs(cmd Command, args []string, errOut io.Writer, extra func(fs *flag.FlagSet)) (positional []string, ok bool) {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	if extra != nil {
		extra(fs)
	}
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()
		switch {
		case strings.HasPrefix(errStr, "flag needs an argument:"):
			name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", name)
		case strings.HasPrefix(errStr, "flag provided but not defined:"):
			name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", name)
		default:
			fmt.Fprintf(errOut, "error: %s\n", errStr)
		}
		return nil, false
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positional = fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return nil, false
	}
	return positional, true
}

// SplitLine splits a shell line into words, honoring double quotes.
func SplitLine(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inQuote, inWord := false, false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inWord = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
