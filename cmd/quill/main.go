package main

import "github.com/orenp/quill/internal/cli"

func main() {
	cli.Execute()
}
