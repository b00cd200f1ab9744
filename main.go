package main

import "registry-sync/cmd"

func main() {
	cmd.Execute()
}
