package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/console/internal/buildinfo"
	"github.com/dmitrijs2005/console/internal/mockapi"
	"github.com/dmitrijs2005/console/internal/mockapi/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	mockapi.NewApp(cfg).Run(context.Background())
}
