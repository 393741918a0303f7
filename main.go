package main

import (
	"github.com/caremesh/healthcare/api"
)

func main() {
	api.MainLoop()
}
