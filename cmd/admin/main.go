package main

import (
	"github.com/caremesh/healthcare/cmd/admin/command"
)

func main() {
	command.Execute()
}
