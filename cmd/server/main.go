package main

import "go-workspace-dashboard/internal/cli"

func main() {
	cli.Execute()
}
