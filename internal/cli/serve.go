package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/roadweave/internal/server"
)

// serveCommand creates the serve command, which exposes generation over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the generation API over HTTP.

Endpoints:
  GET  /healthz
  GET  /v1/strategies
  POST /v1/generate
  POST /v1/generate/all
  GET  /v1/networks/{strategy}/{format}
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger)
			srv.RegisterHooks()
			printInfo("Listening on %s", StyleHighlight.Render("http://"+addr))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
