package main

import "github.com/salam-lobad/ablate/cmd"

func main() {
	cmd.Execute()
}
