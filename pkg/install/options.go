package install

import (
	"log"
	"runtime"
)

// Option customises the installer configuration.
type Option func(*Installer)

// WithRunner injects the command runner.
func WithRunner(r Runner) Option {
	return func(i *Installer) {
		i.runner = r
	}
}

// WithLogger routes progress messages to logger. Defaults to discarding
// them.
func WithLogger(logger *log.Logger) Option {
	return func(i *Installer) {
		i.logger = logger
	}
}

// WithIncluded marks additional packages as already provided by the runtime
// so they are never installed.
func WithIncluded(names ...string) Option {
	return func(i *Installer) {
		for _, name := range names {
			i.included[name] = struct{}{}
		}
	}
}

// WithPlatform overrides the target platform (a GOOS value), which selects
// the INSTALL command form.
func WithPlatform(goos string) Option {
	return func(i *Installer) {
		i.platform = goos
	}
}

func defaultPlatform() string {
	return runtime.GOOS
}
