package main

import (
	"log"

	"github.com/lightyeario/tradingbots/cmd"
)

func main() {
	e := cmd.RootCmd.Execute()
	if e != nil {
		log.Fatal(e)
	}
}
