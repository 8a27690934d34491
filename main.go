package main

import (
	"github.com/metal-toolbox/assetctl/cmd"
)

func main() {
	cmd.Execute()
}
