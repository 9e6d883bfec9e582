// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-velocity/internal/report"
	"github.com/sirseerhq/sirseer-velocity/internal/server"
)

func newServeCommand(global *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve velocity reports over HTTP",
		Long: `Serve velocity reports over HTTP until interrupted.

Endpoints:
  GET /health
  GET /api/metrics/{owner}/{repo}?email=&deploy=&environment=&item_cap=

Every request runs its own report with the server's GitHub token. Complete
reports are cached for server.cache_ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := global.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			token, err := cfg.ResolveToken(global.token)
			if err != nil {
				return err
			}

			runner, err := report.NewRunner(cfg, token, log)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg.Server, runner, log)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (overrides server.addr)")

	return cmd
}
