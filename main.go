package main

import "github.com/Gaikarak/AstroVision-Andromator/pkg/cli"

func main() {
	cli.Execute()
}
