package main

import "github.com/pfrederiksen/mtg-worlds/internal/cli"

func main() {
	cli.Execute()
}
