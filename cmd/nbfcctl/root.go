package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nbfc/backoffice/internal/bootstrap"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in; run nbfcctl login first")

type buildFunc func(ctx context.Context) (*bootstrap.Services, error)

// cli builds the services on first use and closes them after the command
type cli struct {
	build buildFunc
	svc   *bootstrap.Services
}

func newCLI(build buildFunc) *cli {
	return &cli{build: build}
}

func loadServices(ctx context.Context) (*bootstrap.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	// keep stdout clean for JSON output
	cfg.Log.Output = "stderr"
	if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return nil, err
	}
	return bootstrap.Build(ctx, cfg, log)
}

func (c *cli) services(cmd *cobra.Command) (*bootstrap.Services, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	svc, err := c.build(cmd.Context())
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

// authed returns the services once an operator is logged in
func (c *cli) authed(cmd *cobra.Command) (*bootstrap.Services, error) {
	svc, err := c.services(cmd)
	if err != nil {
		return nil, err
	}
	if !svc.Session.Authenticated() {
		return nil, errNotLoggedIn
	}
	return svc, nil
}

func (c *cli) close() error {
	if c.svc == nil {
		return nil
	}
	err := c.svc.Close()
	c.svc = nil
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nbfcctl",
		Short:        "NBFC back-office master data from the command line",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newCompaniesCmd(c),
		newMastersCmd(c),
		newFilesCmd(c),
	)
	return cmd
}
