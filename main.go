package main

import (
	"github.com/joho/godotenv"
	"github.com/tawjihai/tawjih-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; deployments usually set the environment directly.
	_ = godotenv.Load()
}
