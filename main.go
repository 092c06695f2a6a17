package main

import (
	"github.com/110782829/moomoo-chatgpt-trader/cmd"
)

// Version is set at build time
var Version = "dev"

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
