package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// DateLayout is the calendar date format accepted and printed by commands.
const DateLayout = "2006-01-02"

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides the --json flag.
func SetJSONOutput(v bool) {
	jsonOutput = v
}

// PrintJSON writes v as indented JSON to the command's output.
func PrintJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Printf writes to the command's output.
func Printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// Out returns the command's output writer.
func Out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

// ParseID parses a UUID argument named what.
func ParseID(what, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", what, err)
	}
	return id, nil
}

// ParseDate parses a YYYY-MM-DD flag value.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}
	return parsed, nil
}
