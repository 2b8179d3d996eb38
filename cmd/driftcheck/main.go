package main

import "driftcheck/cmd/driftcheck/cmd"

func main() {
	cmd.Execute()
}
