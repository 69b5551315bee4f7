package main

import "nanodomain-widths/internal/cli"

func main() {
	cli.Execute()
}
