package main

import "github.com/shoplite/pos-backend/internal/app"

func main() {
	app.Run()
}
