// postmark cli
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/starius/postmark"
	"github.com/starius/postmark/debugclient"
	"github.com/starius/postmark/email"
	"github.com/starius/postmark/internal/config"
	"github.com/starius/postmark/messagestreams"
	"github.com/starius/postmark/servers"
)

// Set by -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

type State struct {
	configPath   string
	serverToken  string
	accountToken string
	baseURL      string
	debug        bool

	config *config.Config
	stdout io.Writer
}

var state = State{stdout: os.Stdout}

// prepare merges the config file, the environment and the flags.
func (s *State) prepare(cmd *cobra.Command) error {
	path, mustExist := s.configPath, true
	if path == "" {
		path, mustExist = config.DefaultPath(), false
	}
	c, err := config.Read(path, mustExist)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	c.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("server-token") {
		c.ServerToken = s.serverToken
	}
	if flags.Changed("account-token") {
		c.AccountToken = s.accountToken
	}
	if flags.Changed("base-url") {
		c.BaseURL = s.baseURL
	}
	if s.debug {
		c.LogLevel = "debug"
	}

	level, err := c.Level()
	if err != nil {
		return err
	}
	log.Logger = log.Logger.Level(level)

	s.config = c
	return nil
}

func (s *State) client(routes []postmark.Route) (*postmark.Client, error) {
	opts := s.config.Options(log.Logger)
	var httpClient postmark.HttpClient = s.config.HTTPClient()
	if s.debug {
		debugClient, err := debugclient.New(httpClient, os.Stderr)
		if err != nil {
			return nil, err
		}
		httpClient = debugClient
	}
	opts = append(opts, postmark.CustomClient(httpClient))
	log.Debug().Str("base_url", s.config.BaseURL).Msg("creating client")
	return postmark.NewClient(routes, s.config.BaseURL, opts...), nil
}

func (s *State) requireToken(kind postmark.TokenKind) error {
	token := s.config.ServerToken
	env := config.EnvServerToken
	if kind == postmark.AccountAuth {
		token = s.config.AccountToken
		env = config.EnvAccountToken
	}
	if token == "" {
		return fmt.Errorf("missing %s token, set --%s-token or %s", kind, kind, env)
	}
	return nil
}

func (s *State) serversClient() (*servers.Client, error) {
	if err := s.requireToken(postmark.AccountAuth); err != nil {
		return nil, err
	}
	client, err := s.client(servers.Routes(nil))
	if err != nil {
		return nil, err
	}
	return servers.New(client), nil
}

func (s *State) streamsClient() (*messagestreams.Client, error) {
	if err := s.requireToken(postmark.ServerAuth); err != nil {
		return nil, err
	}
	client, err := s.client(messagestreams.Routes(nil))
	if err != nil {
		return nil, err
	}
	return messagestreams.New(client), nil
}

func (s *State) emailClient() (*email.Client, error) {
	if err := s.requireToken(postmark.ServerAuth); err != nil {
		return nil, err
	}
	client, err := s.client(email.Routes(nil))
	if err != nil {
		return nil, err
	}
	return email.New(client), nil
}

func (s *State) print(v interface{}) error {
	encoder := json.NewEncoder(s.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(state.stdout, "github.com/starius/postmark@%s (%s)\n", version, commit)
	},
}

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print OpenAPI document of the supported endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		swag, err := postmark.GenerateOpenApiSpec(
			servers.Routes(nil),
			messagestreams.Routes(nil),
			email.Routes(nil),
		)
		if err != nil {
			return err
		}
		return state.print(swag)
	},
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "postmark",
		Long:         `postmark cli`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.prepare(cmd)
		},
	}
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(openapiCmd)
	rootCmd.AddCommand(newServersCmd())
	rootCmd.AddCommand(newStreamsCmd())
	rootCmd.AddCommand(newSuppressionsCmd())
	rootCmd.AddCommand(newEmailCmd())

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&state.configPath,
		"config", "c", "",
		"Path to YAML configuration file (env: "+config.EnvConfig+")")
	flags.StringVar(&state.serverToken,
		"server-token", "",
		"Server API token (env: "+config.EnvServerToken+")")
	flags.StringVar(&state.accountToken,
		"account-token", "",
		"Account API token (env: "+config.EnvAccountToken+")")
	flags.StringVar(&state.baseURL,
		"base-url", "",
		"Override the API address (env: "+config.EnvBaseURL+")")
	flags.BoolVar(&state.debug,
		"debug", false,
		"Dump requests and responses to stderr")

	return rootCmd
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
