package main

import "github.com/abcfit/fitbanker-go/cmd"

func main() {
	cmd.Execute()
}
