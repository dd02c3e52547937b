package main

import "github.com/kfreiman/docshield/cmd"

func main() {
	cmd.Execute()
}
