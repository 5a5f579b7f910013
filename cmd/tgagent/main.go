package main

import "github.com/ppiankov/tgagent/internal/cli"

func main() {
	cli.Execute()
}
