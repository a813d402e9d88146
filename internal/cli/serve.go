package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/internal/server"
	"github.com/matzehuels/ringmap/pkg/pipeline"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		port     int
		allowAll bool
		watch    string
		themeArg string
		cOpts    cacheOpts
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

POST /api/layout computes a layout for the service map in the request body.
POST /api/render runs the full pipeline and returns links to the rendered
artifacts, retrievable under /view/{id} for a short while.

With --watch, the server additionally watches a service-map file (and
optionally a theme file), re-renders on every save, and pushes a reload to
the viewer page at /watch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, cOpts)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(server.Config{Port: port, AllowAll: allowAll}, runner, c.Logger)

			if watch != "" {
				cfg := server.WatchConfig{
					GraphPath: watch,
					ThemePath: themeArg,
					Options:   pipeline.Options{},
				}
				if err := srv.EnableWatch(cfg); err != nil {
					return err
				}
				go func() {
					if err := srv.Watch(cmd.Context(), cfg); err != nil && cmd.Context().Err() == nil {
						c.Logger.Error("watch loop stopped", "err", err)
					}
				}()
				printInfo("Viewer: http://localhost:%d/watch", port)
			}

			// Shut the listener down when the command context is cancelled.
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 7430, "port to listen on")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	cmd.Flags().StringVar(&watch, "watch", "", "service-map file to watch and serve live")
	cmd.Flags().StringVar(&themeArg, "theme", "", "TOML theme file for watch mode")
	cmd.Flags().BoolVar(&cOpts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cOpts.redisAddr, "redis", "", "redis address for the artifact cache (host:port)")
	cmd.Flags().StringVar(&cOpts.mongoURI, "mongo", "", "mongodb URI for the artifact cache")

	return cmd
}
