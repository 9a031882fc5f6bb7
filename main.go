package main

import "github.com/xvierd/flow-touch/cmd"

func main() {
	cmd.Execute()
}
