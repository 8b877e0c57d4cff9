package main

import "vnsentiment/internal/app"

func main() {
	app.Main()
}
