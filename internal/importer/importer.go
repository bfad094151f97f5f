// Package importer starts server-side imports by opening the import address
// in the user's browser.
package importer

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/cli/browser"

	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
)

// ErrNoSources is returned when no import source is selected
var ErrNoSources = errors.New("no import source selected")

// URLBuilder renders the import address for a set of sources
type URLBuilder interface {
	ImportURL(sources []domain.ImportSource) string
}

// Opener opens a URL outside the program
type Opener func(addr string) error

// Importer opens the import address for the selected sources
type Importer struct {
	urls URLBuilder
	open Opener
	bus  eventbus.EventBus
	log  logging.Logger
}

// Option configures an Importer
type Option func(*Importer)

// WithOpener replaces the browser launcher
func WithOpener(open Opener) Option {
	return func(i *Importer) { i.open = open }
}

// WithBus publishes ImportRequested events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(i *Importer) { i.bus = bus }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(i *Importer) { i.log = l }
}

// New creates an importer that opens URLs with the system browser
func New(urls URLBuilder, opts ...Option) *Importer {
	i := &Importer{
		urls: urls,
		open: openBrowser,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.log = i.log.Named("import")
	return i
}

// openBrowser keeps the launcher's own output off the terminal the TUI draws on
func openBrowser(addr string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(addr)
}

// URL returns the import address for sources without opening it.
// A password from the base URL is masked.
func (i *Importer) URL(sources []domain.ImportSource) (string, error) {
	sources, err := Normalize(sources)
	if err != nil {
		return "", err
	}
	return Redact(i.urls.ImportURL(sources)), nil
}

// Open opens the import address for sources. Only the opener sees the
// credentials; the returned address is masked like URL's.
func (i *Importer) Open(sources []domain.ImportSource) (string, error) {
	sources, err := Normalize(sources)
	if err != nil {
		return "", err
	}
	addr := i.urls.ImportURL(sources)
	shown := Redact(addr)
	if err := i.open(addr); err != nil {
		i.log.Errorw("failed to open import url", "url", shown, "error", err)
		return shown, fmt.Errorf("open %s: %w", shown, err)
	}
	i.log.Infow("import requested", "url", shown, "sources", sources)
	if i.bus != nil {
		i.bus.Publish(domain.ImportRequestedEvent{URL: shown, Sources: sources})
	}
	return shown, nil
}

// Redact masks the password in addr. Addresses that do not parse are returned as is.
func Redact(addr string) string {
	u, err := url.Parse(addr)
	if err != nil {
		return addr
	}
	return u.Redacted()
}

// Normalize drops duplicates, orders sources the way the backend lists them
// and rejects unknown names.
func Normalize(sources []domain.ImportSource) ([]domain.ImportSource, error) {
	seen := make(map[domain.ImportSource]bool, len(sources))
	for _, s := range sources {
		if !Known(s) {
			return nil, fmt.Errorf("unknown import source %q", s)
		}
		seen[s] = true
	}
	var out []domain.ImportSource
	for _, s := range domain.ImportSources {
		if seen[s] {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSources
	}
	return out, nil
}

// Known reports whether s is an import source the backend accepts
func Known(s domain.ImportSource) bool {
	for _, k := range domain.ImportSources {
		if k == s {
			return true
		}
	}
	return false
}
