package main

import (
	"os"

	"github.com/lite-lake/namesilo-ddns/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
