package main

import (
	"building-access-control/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, environment variables win over config defaults
	godotenv.Load()

	cmd.Execute()
}
