/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command crudserver serves the Category resource over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tomoncle/crudkit"
	"github.com/tomoncle/crudkit/config"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/httpapi"
	"github.com/tomoncle/crudkit/internal/catalog"
	"github.com/tomoncle/crudkit/utils"
)

var log = utils.NewLogger("SERVER")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "crudserver",
		Short:        "CRUD server for the category catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML configuration file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configFile, nil)
			if err != nil {
				return err
			}
			defer database.CloseDB()
			return serve(cmd.Context(), cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := setup(configFile, func(c *config.Config) {
				c.Database.DataMigrateConfig.EnableMigrateOnStartup = true
			})
			if err != nil {
				return err
			}
			return database.CloseDB()
		},
	})

	var seedFile string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Create categories from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := setup(configFile, nil)
			if err != nil {
				return err
			}
			defer database.CloseDB()
			return runSeed(cmd.Context(), conf, seedFile)
		},
	}
	seed.Flags().StringVarP(&seedFile, "file", "f", "", "seed file")
	_ = seed.MarkFlagRequired("file")
	root.AddCommand(seed)

	return root
}

// setup loads the configuration, applies the log settings, and opens the
// global database with the Category model registered.
func setup(path string, override func(*config.Config)) (*config.Config, error) {
	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(conf)
	}
	conf.ApplyLogging()

	catalog.Register()
	if _, err := database.InitDB(&conf.Database); err != nil {
		return nil, err
	}
	return conf, nil
}

func serve(ctx context.Context, conf *config.Config) error {
	router := httpapi.NewRouter(httpapi.Options{})
	httpapi.Mount(router, conf.Server.BasePath+"/categories", crudkit.NewUseCase(catalog.Spec()))

	srv := &http.Server{
		Addr:         conf.Server.Addr,
		Handler:      router,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", conf.Server.Addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runSeed(ctx context.Context, conf *config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := catalog.LoadSeed(f)
	if err != nil {
		return err
	}
	result, err := catalog.Seed(ctx, crudkit.NewUseCase(catalog.Spec()), rows, conf.Pipeline.Options()...)
	if result != nil {
		for _, failure := range result.Failures {
			log.WithField("index", failure.Index).WithError(failure.Err).Warn("Skipped invalid seed row")
		}
		fmt.Fprintf(os.Stdout, "created %d categories, skipped %d rows\n", len(result.Created), len(result.Failures))
	}
	return err
}
