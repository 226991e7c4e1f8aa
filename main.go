package main

import (
	"presenca.io/infrastructure"
	"presenca.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
