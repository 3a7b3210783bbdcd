package main

import (
	"github.com/esm-dev/libconf/cli"
)

func main() {
	cli.Run()
}
