// Command dnamix simulates in-vitro DNA assembly.
package main

import (
	"os"

	"dnamix/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
