package main

import (
	"go.uber.org/fx"

	"github.com/gabeln-jetzt/gabeln/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
