package main

import "github.com/ocscaffold/ocscaffold/cmd"

func main() {
	cmd.Execute()
}
