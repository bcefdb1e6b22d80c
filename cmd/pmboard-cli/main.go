package main

import "pmboard/cmd/pmboard-cli/cmd"

func main() {
	cmd.Execute()
}
