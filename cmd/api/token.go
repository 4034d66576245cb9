package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pet-adoption-hub/internal/adapters/auth/jwtauth"
	"pet-adoption-hub/internal/ports/auth"
)

var tokenFlags struct {
	user  string
	email string
	role  string
}

// tokenCmd emite un JWT firmado con jwt.secret (útil en entornos de prueba).
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un JWT para un usuario",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DevMode() {
			return errors.New("token: jwt.secret is required")
		}
		if tokenFlags.user == "" {
			return errors.New("token: --user is required")
		}

		v := jwtauth.NewVerifier(jwtauth.Config{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.TokenTTL,
		})
		tok, err := v.Issue(tokenFlags.user, tokenFlags.email, auth.ParseRole(tokenFlags.role))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenFlags.user, "user", "", "ID del usuario")
	tokenCmd.Flags().StringVar(&tokenFlags.email, "email", "", "email (opcional)")
	tokenCmd.Flags().StringVar(&tokenFlags.role, "role", "user", "user, shelter o admin")
}
