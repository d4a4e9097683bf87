package main

import "os"

func main() {
	code := Execute()
	eng.Close()
	os.Exit(code)
}
