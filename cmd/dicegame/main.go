package main

import (
	"github.com/TheBigR/diceGame-back/internal/cli"
)

func main() {
	cli.Execute()
}
