package main

import (
	"table-pump/cmd"
)

func main() {
	cmd.Execute()
}
