package main

import "github.com/theirongolddev/savor/cmd"

func main() {
	cmd.Execute()
}
