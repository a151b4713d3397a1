package main

import (
	"strings"

	"asciifm/internal/api"
)

// multiWordFlags take the bare words after their value as more of the
// value, so `-a Abbey Road` reads the same as `-a "Abbey Road"`.
var multiWordFlags = map[string]bool{
	"-a":       true,
	"--album":  true,
	"-r":       true,
	"--artist": true,
}

// groupWords repeats the active multi-word flag in front of every bare
// word that follows it. pflag collects the repeated values in order and
// the resolver joins them with spaces. Last.fm URLs stay positional, and
// any other flag ends the group.
func groupWords(args []string) []string {
	out := make([]string, 0, len(args))
	current := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case multiWordFlags[arg]:
			current = arg
			out = append(out, arg)
			if i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		case strings.HasPrefix(arg, "-"):
			current = attachedWordFlag(arg)
			out = append(out, arg)
		case current != "" && !isLastFMURL(arg):
			out = append(out, current, arg)
		default:
			out = append(out, arg)
		}
	}
	return out
}

// attachedWordFlag returns the multi-word flag of "--album=x" or "-ax"
// style arguments, or "" for any other flag.
func attachedWordFlag(arg string) string {
	if name, _, ok := strings.Cut(arg, "="); ok && multiWordFlags[name] {
		return name
	}
	if len(arg) > 2 && arg[1] != '-' && multiWordFlags[arg[:2]] {
		return arg[:2]
	}
	return ""
}

func isLastFMURL(arg string) bool {
	_, err := api.ParseURL(arg)
	return err == nil
}
