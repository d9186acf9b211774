package main

import "github.com/theirongolddev/spendwise/cmd"

func main() {
	cmd.Execute()
}
