package main

import (
	"os"

	"github.com/targetdigest/ietrack/internal/commands"
	"github.com/targetdigest/ietrack/internal/logger"
)

func main() {
	err := commands.NewRootCommand().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
