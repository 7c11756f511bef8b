// meddra looks up Korean MedDRA 28.1 lowest level terms and their hierarchy,
// either from the command line or over HTTP.
package main

import (
	"os"

	"github.com/gcbaptista/go-meddra-lookup/cmd/meddra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
