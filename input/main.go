package main

import "github.com/foghost/webhdfs-input/input/cmd"

func main() {
	cmd.Main()
}
