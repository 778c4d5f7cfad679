package main

import "github.com/spacesedan/sentiscope/internal/cli"

func main() {
	cli.Execute()
}
