package main

import (
	"github.com/mvaldr/kattscope/cmd"
)

func main() {
	cmd.Execute()
}
