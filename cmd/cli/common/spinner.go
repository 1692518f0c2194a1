package common

import (
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/jpnorenam/device-scan/pkg/utils"
)

// StartProgressSpinner shows a spinner on stderr while a scan runs. Nothing is shown when stdout is not a
// terminal, so redirected scan output stays free of control characters.
func StartProgressSpinner(prefix string) (stop func()) {
	if !utils.IsTerminalOutput() {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.Prefix = prefix + " "
	s.Start()
	return s.Stop
}
