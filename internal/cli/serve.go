package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storygraph/pkg/generator"
	"github.com/matzehuels/storygraph/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live story canvases over HTTP and WebSocket",
		Long: `Serve hosts an HTTP API for uploading stories, interacting with their
canvases and rendering them. Clients subscribe to a canvas at
/api/canvases/{id}/ws and receive a fresh snapshot after every change.
Story generation is enabled when a Gemini API key is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), addr, splitList(origins), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&origins, "cors", "", "comma-separated allowed origins (default any)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout and story caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, out io.Writer, addr string, origins []string, noCache bool) error {
	cfg := c.config()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	var gen generator.Generator
	if cfg.Generator.APIKey != "" {
		if gen, err = c.newGenerator(ctx, store); err != nil {
			return err
		}
	} else {
		c.Logger.Info("generation disabled: no API key")
	}

	srv, err := server.New(server.Options{
		Canvas:         cfg.CanvasConfig(),
		Layouter:       c.newLayouter(store),
		Generator:      gen,
		S3:             c.s3Config(),
		MaxCanvases:    cfg.Server.MaxCanvases,
		AllowedOrigins: origins,
	}, c.Logger)
	if err != nil {
		return err
	}

	p := newPrinter(out)
	p.success("Serving on %s", addr)
	p.keyValue("Layout", cfg.Layout.Engine)
	p.keyValue("Cache", cfg.Cache.Backend)
	if gen != nil {
		p.keyValue("Generator", gen.Name())
	}
	p.line("")
	return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
