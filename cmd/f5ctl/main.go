package main

import (
	"fmt"
	"os"

	"github.com/gundalow-collections/f5networks/cmd/f5ctl/commands"
	"github.com/gundalow-collections/f5networks/internal/utils/logger"
)

func main() {
	defer logger.Sync() //nolint:errcheck
	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
