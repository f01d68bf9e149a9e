package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/config"
	"github.com/mamadbah2/hannan/internal/crud"
	"github.com/mamadbah2/hannan/internal/crud/viewstate"
	"github.com/mamadbah2/hannan/pkg/clients/farmapi"
	"github.com/mamadbah2/hannan/pkg/logger"
)

// app is the state shared by every command of one invocation.
type app struct {
	envFile string
	apiURL  string
	verbose bool

	api       *farmapi.Client
	container *crud.Container
	logger    *zap.Logger
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "error"
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logger.New(logger.Options{Level: level, Development: true})
	if err != nil {
		return err
	}

	baseURL := cfg.Client.APIURL
	if a.apiURL != "" {
		baseURL = a.apiURL
	}
	a.api = farmapi.NewClient(baseURL, a.logger.Named("farmapi"))

	services := func(module string) (crud.DataService, crud.PhotoUploader) {
		r := a.api.Resource(module)
		return r, r
	}
	a.container = crud.NewContainer(services, viewstate.NewFileKV(cfg.Client.ViewStateFile), a.logger.Named("crud"))
	a.logger.Debug("client ready", zap.String("api", baseURL), zap.String("view_state", cfg.Client.ViewStateFile))
	return nil
}

// finish prints the pending toast. An error toast fails the command.
func (a *app) finish(out io.Writer) error {
	toast, ok := a.container.Toast()
	if !ok {
		return nil
	}
	if toast.Error {
		return errors.New(toast.Message)
	}
	fmt.Fprintln(out, successStyle.Render(toast.Message))
	return nil
}
