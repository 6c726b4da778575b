package main

import "github.com/hankerbiao/Registration-System/internal/cli"

func main() {
	cli.Execute()
}
