package main

import "imgbake/cmd"

func main() {
	cmd.Execute()
}
