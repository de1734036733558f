package main

import (
	"os"

	"github.com/yuuki0xff/glxtrace/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
