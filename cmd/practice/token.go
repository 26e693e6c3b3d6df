package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simp-lee/practice/internal/config"
	"github.com/simp-lee/practice/internal/middleware"
)

const defaultTokenExpiry = 24 * time.Hour

func tokenCmd(load loadFunc) *cobra.Command {
	var (
		org   string
		user  string
		roles []string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for an organization user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if org == "" || user == "" {
				return errors.New("--org and --user are required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			if !cfg.Auth.Enabled {
				return errors.New("auth.enabled is false; tokens would not be accepted")
			}
			if ttl <= 0 {
				ttl = config.Duration(cfg.Auth.TokenExpiry, defaultTokenExpiry)
			}

			token, err := middleware.SignToken(middleware.AuthConfig{
				Secret: []byte(cfg.Auth.JWTSecret),
				Issuer: cfg.Auth.Issuer,
			}, middleware.Identity{
				OrganizationID: org,
				UserID:         user,
				Roles:          roles,
			}, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization id")
	cmd.Flags().StringVar(&user, "user", "", "user id")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role to grant (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_expiry)")
	return cmd
}
