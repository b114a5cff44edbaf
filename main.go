package main

import "mlist-manager/cmd"

func main() {
	cmd.Execute()
}
