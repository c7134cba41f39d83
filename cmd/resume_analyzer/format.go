package main

import "fmt"

const (
	formatJSON = "json"
	formatText = "text"
)

func checkFormat(f string) error {
	if f != formatJSON && f != formatText {
		return fmt.Errorf("invalid --format %q: must be json or text", f)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
