package main

import (
	"os"

	"github.com/quiz-signup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
