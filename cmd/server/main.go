package main

import (
	"os"

	"enchanted-day/backend/internal/app"
)

func main() {
	os.Exit(app.Run())
}
