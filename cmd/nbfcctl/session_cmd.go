package main

import (
	"errors"

	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/spf13/cobra"
)

type sessionOutput struct {
	User               *session.User    `json:"user"`
	SelectedCompany    *master.Company  `json:"selectedCompany"`
	AvailableCompanies []master.Company `json:"availableCompanies"`
}

func describe(s *session.Session) sessionOutput {
	out := sessionOutput{AvailableCompanies: s.AvailableCompanies()}
	if u, ok := s.User(); ok {
		out.User = &u
	}
	if c, ok := s.SelectedCompany(); ok {
		out.SelectedCompany = &c
	}
	return out
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an operator and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services(cmd)
			if err != nil {
				return err
			}
			if !svc.Session.Login(cmd.Context(), email, password) {
				return errors.New("invalid email or password")
			}
			return writeJSON(cmd.OutOrStdout(), describe(svc.Session))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Operator email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Operator password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the operator session",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services(cmd)
			if err != nil {
				return err
			}
			return svc.Session.Logout(cmd.Context())
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the operator and selected company",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), describe(svc.Session))
		},
	}
}

func newCompaniesCmd(c *cli) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List the companies available to the operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			if refresh || len(svc.Session.AvailableCompanies()) == 0 {
				if _, err := svc.Session.RefreshCompanies(cmd.Context()); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), describe(svc.Session))
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the list from the backend")

	cmd.AddCommand(&cobra.Command{
		Use:   "select <id>",
		Short: "Switch the selected company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authed(cmd)
			if err != nil {
				return err
			}
			if len(svc.Session.AvailableCompanies()) == 0 {
				if _, err := svc.Session.RefreshCompanies(cmd.Context()); err != nil {
					return err
				}
			}
			company, err := svc.Session.SelectCompany(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), company)
		},
	})
	return cmd
}
