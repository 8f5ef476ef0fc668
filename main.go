package main

import "github.com/betzbotz1/betzbotz-bot1/cmd"

func main() {
	cmd.Execute()
}
