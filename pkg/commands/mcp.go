package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/logging"
	"tableflip.dev/calendiary/pkg/runner/mcp"
	"tableflip.dev/calendiary/pkg/store"
)

type mcpOptions struct {
	Transport string
	Host      string
	Port      int
	Path      string
	TLSCert   string
	TLSKey    string
}

func addMCPArgs(cmd *cobra.Command, o *mcpOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&o.Host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&o.Port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&o.Path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&o.TLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&o.TLSKey, "http-tls-key", "", "TLS private key file for HTTPS")
}

func (o *mcpOptions) transport() (mcp.Transport, error) {
	switch t := mcp.Transport(strings.ToLower(strings.TrimSpace(o.Transport))); t {
	case "", mcp.TransportHTTP:
		return mcp.TransportHTTP, nil
	case mcp.TransportStdio:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected http or stdio)", o.Transport)
	}
}

func (o *mcpOptions) listenAddr() (string, error) {
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.Port)
	}
	host := strings.TrimSpace(o.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.Port)), nil
}

func (o *mcpOptions) endpoint() string {
	path := strings.TrimSpace(o.Path)
	if path == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func addMCP(topLevel *cobra.Command) {
	o := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes diary entries and month calendars
through the Model Context Protocol.

With the stdio transport stdout carries the protocol, so logs go to the
configured log file.`,
		Example: `
calendiary mcp
calendiary mcp --http-port 0
calendiary mcp --transport stdio
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, err := o.transport()
			if err != nil {
				return err
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}

			log := logging.Console(cfg.LogLevel())
			if transport == mcp.TransportStdio {
				fileLog, closer, err := logging.File(cfg.LogFile(), cfg.LogLevel())
				if err != nil {
					return err
				}
				defer closer.Close()
				log = fileLog
			}

			storage, err := openStoreWith(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer storage.Close()

			r := mcp.Runner{
				Storage:          storage,
				Name:             "calendiary",
				Version:          version,
				Log:              logging.Component(log, "mcp"),
				Transport:        transport,
				HTTPEndpointPath: o.endpoint(),
				HTTPServerCert:   strings.TrimSpace(o.TLSCert),
				HTTPServerKey:    strings.TrimSpace(o.TLSKey),
			}
			if transport == mcp.TransportHTTP {
				if r.HTTPListenAddr, err = o.listenAddr(); err != nil {
					return err
				}
				scheme := "http"
				if r.HTTPServerCert != "" {
					scheme = "https"
				}
				r.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s://%s%s\n", scheme, a, r.HTTPEndpointPath)
				}
			}
			return r.Do(cmd.Context())
		},
	}

	addMCPArgs(cmd, o)

	topLevel.AddCommand(cmd)
}
