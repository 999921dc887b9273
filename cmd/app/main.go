package main

import (
	"github.com/autotaller/recepcion-agenda/internal/cli"
)

// version подставляется при сборке через -ldflags
var version = "dev"

func main() {
	cli.Execute(version)
}
