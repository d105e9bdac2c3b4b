package main

import "github.com/aweris/udv/cmd/udv/cmd"

func main() {
	cmd.Execute()
}
