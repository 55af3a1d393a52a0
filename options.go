package postmark

import (
	"net/http"

	"github.com/rs/zerolog"
)

// DefaultMaxBody limits size of response bodies read by the client and
// of request bodies read by BindRoutes.
const DefaultMaxBody = 10 << 20

// HttpClient is the transport used by Client. *http.Client implements it.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

type Config struct {
	logger       zerolog.Logger
	client       HttpClient
	serverToken  string
	accountToken string
	userAgent    string
	maxBody      int64
}

func NewDefaultConfig() *Config {
	return &Config{
		logger:  zerolog.Nop(),
		maxBody: DefaultMaxBody,
	}
}

type Option func(*Config)

// Logger sets the logger. Calls are logged at debug level, failures
// to release resources at error level.
func Logger(logger zerolog.Logger) Option {
	return func(config *Config) {
		config.logger = logger
	}
}

// CustomClient replaces the default HTTP client.
func CustomClient(client HttpClient) Option {
	return func(config *Config) {
		config.client = client
	}
}

// ServerToken sets the token sent to endpoints of a server
// (email, message streams).
func ServerToken(token string) Option {
	return func(config *Config) {
		config.serverToken = token
	}
}

// AccountToken sets the token sent to account endpoints (servers).
func AccountToken(token string) Option {
	return func(config *Config) {
		config.accountToken = token
	}
}

// UserAgent sets User-Agent header of requests.
func UserAgent(userAgent string) Option {
	return func(config *Config) {
		config.userAgent = userAgent
	}
}

// MaxBody limits the size of bodies read.
func MaxBody(maxBody int64) Option {
	return func(config *Config) {
		config.maxBody = maxBody
	}
}
