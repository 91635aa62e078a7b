package main

import "hl-fill-alerts/internal/cli"

func main() {
	cli.Execute()
}
