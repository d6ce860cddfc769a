package main

import "github.com/ccwatch/ccwatch/cmd/ccwatch/cli"

func main() {
	cli.Execute()
}
