package main

import (
	"os"

	"github.com/smallyu/go-sss/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
