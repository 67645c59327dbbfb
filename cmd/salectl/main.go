package main

import (
	"os"

	"github.com/hansos/DR-Admin-sub001/cmd/salectl/commands"
	apperr "github.com/hansos/DR-Admin-sub001/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(apperr.ExitCode(err))
	}
}
