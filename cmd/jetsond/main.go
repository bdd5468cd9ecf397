package main

import (
	"github.com/NVIDIA/jetson-dashboard/pkg/cli"
)

func main() {
	cli.Execute()
}
