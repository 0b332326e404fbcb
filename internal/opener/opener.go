package opener

import (
	_ "embed"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/validation"
)

//go:embed openers.toml
var openersTOML []byte

var ErrNoOpener = errors.New("no application found to open links")

type platformConfig struct {
	Candidates []string `toml:"candidates"`
}

type openerDefinition struct {
	Args []string `toml:"args"`
}

type table struct {
	Platforms map[string]platformConfig   `toml:"platforms"`
	Openers   map[string]openerDefinition `toml:"openers"`
}

func loadTable() (*table, error) {
	var t table
	if err := toml.Unmarshal(openersTOML, &t); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}
	return &t, nil
}

// Opener launches novel links in an external application.
type Opener struct {
	command string
	args    []string

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

type Option func(*Opener)

// WithCommand forces a specific opener instead of probing the platform list.
func WithCommand(name string) Option {
	return func(o *Opener) { o.command = name }
}

func withLookPath(fn func(string) (string, error)) Option {
	return func(o *Opener) { o.lookPath = fn }
}

func withStart(fn func(*exec.Cmd) error) Option {
	return func(o *Opener) { o.start = fn }
}

// New resolves the opener for the running platform.
func New(opts ...Option) (*Opener, error) {
	o := &Opener{
		lookPath: exec.LookPath,
		start:    startDetached,
	}
	for _, opt := range opts {
		opt(o)
	}

	t, err := loadTable()
	if err != nil {
		return nil, err
	}

	if o.command == "" {
		o.command = o.findCommand(t.Platforms[runtime.GOOS].Candidates...)
	}
	if o.command == "" {
		return nil, fmt.Errorf("%w on %s", ErrNoOpener, runtime.GOOS)
	}
	o.args = t.Openers[o.command].Args

	debuglog.Debugf("using %s to open links", o.command)
	return o, nil
}

func (o *Opener) Command() string { return o.command }

// Open hands link to the opener. Only absolute http(s) links are accepted.
func (o *Opener) Open(link string) error {
	if _, err := validation.NewEndpointValidator().Validate(link); err != nil {
		return fmt.Errorf("refusing to open %q: %w", link, err)
	}

	args := append(append([]string{}, o.args...), link)
	cmd := exec.Command(o.command, args...)
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", o.command, err)
	}
	return nil
}

func (o *Opener) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := o.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

// startDetached starts GUI applications without waiting on them.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
