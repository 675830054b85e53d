package main

import "starforge/cmd"

func main() {
	cmd.Execute()
}
