package main

import (
	"os"
	"presale/internal/app"

	"github.com/sirupsen/logrus"
)

// @title Presale API
// @version 1.0
// @description Token presale priced in USD through live oracle feeds.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped")
		os.Exit(1)
	}
}
