package main

import (
	"os"

	"github.com/km-arc/go-beans/framework/console"
)

func main() {
	os.Exit(console.Execute())
}
