package main

import "storebot/internal/app"

func main() {
	app.Main()
}
