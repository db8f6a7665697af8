package main

import "github.com/iksnae/chathub/cmd"

func main() {
	cmd.Execute()
}
