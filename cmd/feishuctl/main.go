package main

import (
	"os"

	"github.com/kart-io/feishukit/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
