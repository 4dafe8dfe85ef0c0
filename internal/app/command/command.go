package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Error marks a subcommand failure. main unwraps it to log the inner
// error with a stack trace instead of printing command usage.
type Error struct {
	Inner error
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Msg, e.Inner)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func WrapError(err error) error {
	if err == nil {
		return nil
	}

	return &Error{
		Inner: err,
		Msg:   "command failed",
	}
}

const outputDirFlag = "output"

// AddOutputDirFlag registers the flag naming the directory archives are
// written into.
func AddOutputDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(outputDirFlag, "o", ".", "directory to write archives into")
}

func GetOutputDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString(outputDirFlag)
	if err != nil {
		return "", fmt.Errorf("get output flag: %w", err)
	}
	return dir, nil
}
