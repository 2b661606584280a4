package main

import "asynclog/internal/cli"

func main() {
	cli.Execute()
}
