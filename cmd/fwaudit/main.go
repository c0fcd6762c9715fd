package main

import (
	"os"

	"github.com/eleven-am/fwaudit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
