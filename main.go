package main

import "github.com/mj1618/terminator-agent/cmd"

func main() {
	cmd.Execute()
}
