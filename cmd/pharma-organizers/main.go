package main

import "github.com/pfrederiksen/pharma-organizers/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
