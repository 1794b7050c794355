// Command web serves the animated net worth race dashboard and its JSON API.
package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"nwcli/internal/app"
)

//go:embed dashboard
var dashboardFiles embed.FS

func main() {
	var dashboardFS fs.FS
	if sub, err := fs.Sub(dashboardFiles, "dashboard"); err == nil {
		dashboardFS = sub
	} else {
		slog.Warn("dashboard embedding failed", slog.String("error", err.Error()))
	}

	application, err := app.NewApplication(dashboardFS)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
