package main

import (
	"os"

	"feedwatch/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real credentials usually come from the environment.
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
