package main

import "github.com/xvierd/lifegame-cli/cmd"

func main() {
	cmd.Execute()
}
