package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/auth"
	"github.com/gurukulschool/portal/internal/cli/client"
	"github.com/gurukulschool/portal/internal/cli/config"
	"github.com/gurukulschool/portal/internal/cli/guard"
	"github.com/gurukulschool/portal/internal/cli/serverselect"
	"github.com/gurukulschool/portal/internal/cli/session"
	"github.com/gurukulschool/portal/internal/logger"
)

// Generic messages shown when the server gives no reason
const (
	fallbackLogin      = "Invalid credentials"
	fallbackAdminLogin = "Invalid admin credentials"
	fallbackGeneric    = "Something went wrong"
)

// runtime carries what a command needs to talk to one server
type runtime struct {
	server     *config.Server
	serverFlag string
	store      auth.TokenStore
	out        io.Writer
	log        zerolog.Logger
}

// Option configures a command run
type Option func(*runtime)

// WithServer uses server instead of resolving one from portal.json
func WithServer(server *config.Server) Option {
	return func(rt *runtime) {
		rt.server = server
	}
}

// WithServerFlag selects a configured server by alias or URL
func WithServerFlag(urlOrAlias string) Option {
	return func(rt *runtime) {
		rt.serverFlag = urlOrAlias
	}
}

// WithTokenStore overrides the keyring token store
func WithTokenStore(store auth.TokenStore) Option {
	return func(rt *runtime) {
		rt.store = store
	}
}

// WithOutput redirects command output
func WithOutput(w io.Writer) Option {
	return func(rt *runtime) {
		rt.out = w
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(log zerolog.Logger) Option {
	return func(rt *runtime) {
		rt.log = log
	}
}

func newRuntime(opts ...Option) (*runtime, error) {
	rt := &runtime{
		store: auth.Default,
		out:   os.Stdout,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rt)
	}

	if rt.server == nil {
		server, err := getSelectedServer(rt.serverFlag)
		if err != nil {
			return nil, err
		}
		rt.server = server
	}

	return rt, nil
}

// getSelectedServer returns PORTAL_URL when set, else the server chosen
// from portal.json
func getSelectedServer(urlOrAlias string) (*config.Server, error) {
	if envURL := os.Getenv("PORTAL_URL"); envURL != "" && urlOrAlias == "" {
		serverURL, err := config.NormalizeURL(envURL)
		if err != nil {
			return nil, err
		}
		return &config.Server{URL: serverURL, Alias: "env"}, nil
	}

	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'portal init <url>' to create a configuration file", err)
	}

	server, err := serverselect.ResolveServer(cfg, urlOrAlias)
	if err != nil {
		return nil, err
	}

	if server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit portal.json and add a valid URL")
	}

	return server, nil
}

func (rt *runtime) api() *client.Client {
	return client.New(rt.server.URL)
}

func (rt *runtime) manager(api session.AuthAPI) *session.Manager {
	m := session.NewManager(api, rt.store, rt.server.URL, session.WithLogger(rt.log))
	m.Handle().Subscribe(func(s session.Session) {
		event := rt.log.Debug().Bool("loading", s.Loading).Bool("authenticated", s.Authenticated())
		if s.User != nil {
			event = event.Str("email", s.User.Email).Str("role", s.User.Role)
		}
		event.Msg("Session changed")
	})
	return m
}

// authorize resolves the stored session and runs the guard for mode
func (rt *runtime) authorize(ctx context.Context, mode guard.Mode) (*client.Client, *session.Manager, error) {
	api := rt.api()
	m := rt.manager(api)
	m.Resolve(ctx)

	if err := guard.Evaluate(m.Session(), mode).Err(); err != nil {
		return nil, nil, err
	}
	return api, m, nil
}

// userError pairs the message shown to the user with the underlying error
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// failed describes err for display, preferring the server's reason
func failed(action, fallback string, err error) error {
	if errors.Is(err, guard.ErrNotAuthenticated) || errors.Is(err, guard.ErrAdminRequired) {
		return err
	}
	return &userError{msg: fmt.Sprintf("%s: %s", action, client.Message(err, fallback)), err: err}
}

// globalOptions reads the root persistent flags
func globalOptions(cmd *cobra.Command) []Option {
	var opts []Option
	if serverFlag, err := cmd.Flags().GetString("server"); err == nil && serverFlag != "" {
		opts = append(opts, WithServerFlag(serverFlag))
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		opts = append(opts, WithLogger(logger.NewCLI(verbose)))
	}
	return opts
}
