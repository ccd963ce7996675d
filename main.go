package main

import "github.com/Norgate-AV/dtgen/cmd"

func main() {
	cmd.Execute()
}
