package main

import "mediafetch/cmd"

func main() {
	cmd.Execute()
}
