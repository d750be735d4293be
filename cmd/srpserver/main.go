// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// srpserver is a simple example server of the srp package. It can be used
// together with cmd/srpclient.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/frekui/srp/internal/pkg/cli"
	"github.com/frekui/srp/internal/pkg/config"
	"github.com/frekui/srp/store"
	"github.com/pion/logging"
	"github.com/spf13/cobra"
)

const defaultConfig = "srpserver.toml"

func main() {
	root := cli.NewRootCommand("srpserver",
		"Example SRP server",
		"srpserver authenticates users enrolled with \"srpserver adduser\" and\n"+
			"greets them over a channel keyed with the SRP session key.")
	root.PersistentFlags().StringP("config", "c", defaultConfig, "Path to the configuration file")
	root.AddCommand(newInitCommand(), newAddUserCommand(), newRunCommand(), cli.NewVersionCommand("srpserver"))
	cli.ExecuteRoot(root)
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file for srpserver.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := config.Save(path, config.DefaultServer()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}

// loadServer reads the configuration and opens the verifier database.
func loadServer(cmd *cobra.Command) (*config.Server, store.Store, logging.LoggerFactory, error) {
	path, _ := cmd.Flags().GetString("config")
	conf := config.DefaultServer()
	if err := config.Load(path, conf); err != nil {
		return nil, nil, nil, err
	}
	lf, err := config.LoggerFactory(conf.LogLevel, os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := store.OpenLevelDB(config.ResolvePath(conf.Database, path), lf)
	if err != nil {
		return nil, nil, nil, err
	}
	return conf, st, lf, nil
}

func newAddUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Enroll a user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if username == "" || password == "" {
				return fmt.Errorf("adduser: --username and --password are required")
			}
			conf, st, _, err := loadServer(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			template, err := conf.Params()
			if err != nil {
				return fmt.Errorf("adduser: %s", err)
			}
			if _, err := store.Enroll(st, username, []byte(password), template, conf.SaltLength, nil); err != nil {
				return fmt.Errorf("adduser: %s", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added user '%s'\n", username)
			return nil
		},
	}
	cmd.Flags().StringP("username", "u", "", "Username")
	cmd.Flags().StringP("password", "p", "", "Password")
	return cmd
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a srpserver instance.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, st, lf, err := loadServer(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ln, err := net.Listen("tcp", conf.Address)
			if err != nil {
				return err
			}
			srv := newServer(st, lf)
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigs
				ln.Close()
			}()
			srv.log.Infof("listening on %s", ln.Addr())
			srv.serve(ln)
			return nil
		},
	}
}
