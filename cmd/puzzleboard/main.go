package main

import "github.com/mcoot/puzzleboard/internal/cli"

func main() {
	cli.Execute()
}
