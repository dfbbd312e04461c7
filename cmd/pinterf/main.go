package main

import "pinterf/internal/cli"

func main() {
	cli.Execute()
}
