package main

import "github.com/papapumpkin/qadash/cmd"

func main() {
	cmd.Execute()
}
