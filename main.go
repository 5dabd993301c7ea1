package main

import "github.com/chesskit/studytree/cmd"

func main() {
	cmd.Execute()
}
