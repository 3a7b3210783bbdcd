package cli

import (
	"fmt"
	"os"
)

// VERSION is the version of the CLI
const VERSION = "0.1.0"

const helpMessage = "\033[30mlibconf - Compose library build environments from a single config.\033[0m" + `

Usage: libconf [command] [options]

Commands:
  inspect               Print the composed environments as JSON
  build                 Build every environment with esbuild

Options:
  --version, -v         Show the version
  --help, -h            Display this help message
`

// Run runs the command given by the first argument.
func Run() {
	if len(os.Args) < 2 {
		fmt.Print(helpMessage)
		return
	}
	switch command := os.Args[1]; command {
	case "inspect":
		Inspect()
	case "build":
		Build()
	case "version":
		fmt.Println("libconf " + VERSION)
	default:
		for _, arg := range os.Args[1:] {
			if arg == "--version" {
				fmt.Println("libconf " + VERSION)
				return
			}
			if arg == "-v" {
				fmt.Println(VERSION)
				return
			}
		}
		fmt.Print(helpMessage)
	}
}
