// Package auth stores and validates the personal API token.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/config"
)

// verifyTimeout bounds the request that checks a new token.
const verifyTimeout = 15 * time.Second

var (
	// ErrNoToken is returned when no token is configured anywhere.
	ErrNoToken = errors.New("no API token configured (run with --login or set " + config.TokenEnv + ")")
	// ErrRejected is returned when the service refuses a token.
	ErrRejected = errors.New("token rejected by the server")
)

// Verifier checks a token by making an authenticated request with it.
type Verifier func(ctx context.Context, token string) error

// ProjectsVerifier verifies a token by listing projects.
var ProjectsVerifier = clientVerifier(api.BaseURL)

func clientVerifier(baseURL string) Verifier {
	return func(ctx context.Context, token string) error {
		client := api.NewClient(token)
		client.SetBaseURL(baseURL)

		_, err := client.GetProjects(ctx)
		if apiErr, ok := api.IsAPIError(err); ok && apiErr.IsUnauthorized() {
			return ErrRejected
		}
		return err
	}
}

// Login prompts for a token and stores it once it has been verified.
type Login struct {
	In  io.Reader
	Out io.Writer

	// SettingsURL is where the user finds their token. It is printed and
	// opened in a browser when OpenBrowser is set.
	SettingsURL string
	OpenBrowser bool

	Verify Verifier
	// Save stores the token and reports where it went.
	Save func(token string) (string, error)
}

// NewLogin returns a Login on the terminal that verifies against the
// service and saves to the keyring.
func NewLogin(settingsURL string) *Login {
	return &Login{
		In:          os.Stdin,
		Out:         os.Stdout,
		SettingsURL: settingsURL,
		OpenBrowser: true,
		Verify:      ProjectsVerifier,
		Save:        config.SaveToken,
	}
}

// Run prompts, verifies and saves. It returns the stored token.
func (l *Login) Run(ctx context.Context) (string, error) {
	if l.SettingsURL != "" {
		fmt.Fprintf(l.Out, "Get your API token from:\n  %s\n\n", l.SettingsURL)
		if l.OpenBrowser {
			// best effort; the URL is printed either way
			_ = openBrowser(l.SettingsURL)
		}
	}

	fmt.Fprint(l.Out, "API token: ")
	token, err := l.readToken()
	fmt.Fprintln(l.Out)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return "", config.ErrEmptyToken
	}

	if l.Verify != nil {
		vctx, cancel := context.WithTimeout(ctx, verifyTimeout)
		defer cancel()
		if err := l.Verify(vctx, token); err != nil {
			return "", fmt.Errorf("verify token: %w", err)
		}
	}

	where, err := l.Save(token)
	if err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(l.Out, "Token saved to %s\n", where)
	return token, nil
}

// readToken reads without echo from a terminal, or one line otherwise.
func (l *Login) readToken() (string, error) {
	if f, ok := l.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return strings.TrimSpace(string(b)), err
	}

	line, err := bufio.NewReader(l.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Resolve returns the configured token or ErrNoToken.
func Resolve(cfg *config.Config) (string, error) {
	token, err := cfg.Token()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// openBrowser opens the default browser to the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default: // Linux and others
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
