package main

import "github.com/massimiliano76/lapi/cmd"

func main() {
	cmd.Execute()
}
