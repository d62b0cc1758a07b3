package main

import (
	"os"

	"github.com/deppfellow/cpf-validator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
