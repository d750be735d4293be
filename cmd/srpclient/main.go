// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// srpclient is a simple example client of the srp package. It can be used
// together with cmd/srpserver.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/frekui/srp/internal/pkg/cli"
	"github.com/frekui/srp/internal/pkg/config"
	"github.com/spf13/cobra"
)

func main() {
	root := cli.NewRootCommand("srpclient",
		"Example SRP client",
		"srpclient authenticates against srpserver and exchanges one encrypted\n"+
			"greeting with it.")
	root.PersistentFlags().StringP("config", "c", "", "Path to an optional configuration file")
	root.AddCommand(newAuthCommand(), cli.NewVersionCommand("srpclient"))
	cli.ExecuteRoot(root)
}

func loadClient(cmd *cobra.Command) (*config.Client, error) {
	conf := config.DefaultClient()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.Load(path, conf); err != nil {
			return nil, err
		}
	}
	if addr, _ := cmd.Flags().GetString("conn"); addr != "" {
		conf.Address = addr
	}
	return conf, nil
}

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate and send a message to the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if username == "" || password == "" {
				return fmt.Errorf("auth: --username and --password are required")
			}
			conf, err := loadClient(cmd)
			if err != nil {
				return err
			}
			lf, err := config.LoggerFactory(conf.LogLevel, os.Stderr)
			if err != nil {
				return err
			}
			conn, err := net.Dial("tcp", conf.Address)
			if err != nil {
				return err
			}
			defer conn.Close()

			c := newClient(lf)
			received, err := c.auth(conn, username, []byte(password))
			if err != nil {
				return fmt.Errorf("auth: %s", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Received '%s'\n", received)
			return nil
		},
	}
	cmd.Flags().String("conn", "", "Host to connect to (overrides the configuration)")
	cmd.Flags().StringP("username", "u", "", "Username")
	cmd.Flags().StringP("password", "p", "", "Password")
	return cmd
}
