package main

import "momentum/internal/cli"

func main() {
	cli.Execute()
}
