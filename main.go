package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cloudnest/nestctl/cmd"
	"github.com/cloudnest/nestctl/deploy"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)

		// A missing precondition (the secret) gets its own exit code so
		// wrappers can tell "create the secret" apart from other failures.
		var precondition *deploy.PreconditionError
		if errors.As(err, &precondition) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
