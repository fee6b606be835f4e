package main

import "github.com/Marvin-Brouwer/slng-sub000/apps/cli/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
