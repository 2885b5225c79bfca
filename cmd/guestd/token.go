package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/guestline/internal/guest/config"
	"github.com/go-arcade/guestline/pkg/http/auth/jwt"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/spf13/cobra"
)

/**
 * @file: token.go
 * @description: mint an access token for the admin routes
 */

var tokenUserId string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an access token for a user with the configured http.auth.secretKey",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserId == "" {
			return errors.New("--user is required")
		}
		appConf, err := config.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		log.MustInit(&appConf.Log)

		auth := appConf.Http.Auth
		token, err := jwt.GenToken(tokenUserId, []byte(auth.SecretKey), time.Duration(auth.AccessExpire)*time.Minute)
		if err != nil {
			return fmt.Errorf("sign token for %s: %w", tokenUserId, err)
		}
		log.Infow("access token issued", "userId", tokenUserId, "expireMinutes", auth.AccessExpire)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path")
	tokenCmd.Flags().StringVarP(&tokenUserId, "user", "u", "", "user id carried by the token")
}
