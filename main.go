package main

import (
	"os"

	"github.com/GoWebAPP/GoWebAPP/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
