package main

import "pip2sysdep/internal/cli"

func main() {
	cli.Execute()
}
