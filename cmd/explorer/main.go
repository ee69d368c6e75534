package main

import "github.com/devicelab-dev/exploration-panel/pkg/cli"

func main() {
	cli.Execute()
}
