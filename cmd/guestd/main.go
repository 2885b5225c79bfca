package main

import (
	"github.com/go-arcade/guestline/internal/bootstrap"
	"github.com/go-arcade/guestline/pkg/version"
	"github.com/spf13/cobra"
)

/**
 * @file: main.go
 * @description: guestd, the guest provisioning and verification service
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:   "guestd",
	Short: "guestd provisions and verifies guest accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bootstrap 初始化应用
		app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}

		// 启动应用并等待退出信号
		bootstrap.Run(app, cleanup)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path, e.g. --conf ./conf.d/config.toml")
	rootCmd.AddCommand(version.VersionCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
