package main

import (
	"fmt"

	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenRole string
)

// tokenCmd issues access tokens for local use. Login flows live outside the portal.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for a user and role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret must be set to issue tokens")
		}

		role := kernel.Role(tokenRole)
		if !auth.IsKnownRole(role) {
			return auth.ErrUnknownRole().WithDetail("role", tokenRole)
		}

		tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		token, err := tokens.GenerateAccessToken(kernel.UserID(tokenUser), role)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// hashKeyCmd prints the value to put under auth.api_key_hashes for a client.
var hashKeyCmd = &cobra.Command{
	Use:   "hash-key <secret>",
	Short: "Hash an API key secret for configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashAPIKeySecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleHR), "role: admin, hr, manager, employee, candidate")
	_ = tokenCmd.MarkFlagRequired("user")
	tokenCmd.AddCommand(hashKeyCmd)
	rootCmd.AddCommand(tokenCmd)
}
