package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := New(os.Getenv("CLINIC_CONFIG_FILE"))
	if err != nil {
		logrus.WithError(err).Fatal("failed to start")
	}
	defer app.Close()

	app.Run()
}
