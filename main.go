package main

import "github.com/depscout/depscout/cmd"

func main() {
	cmd.Execute()
}
