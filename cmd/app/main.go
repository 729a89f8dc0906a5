package main

import (
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
