package profile

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the directory that receives the profile.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Option modifies a copy of a Profiler.
type Option func(Profiler) Profiler

// Make returns a Profiler configured by opts.
func Make(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Enabled reports whether Start would begin profiling.
func (p Profiler) Enabled() bool {
	return p.Mode != "" && Supported(p.Mode)
}

// Start begins profiling and returns a handle to stop it.
// Start returns a no-op handle when the build lacks the pprof tag or the
// mode is empty or unsupported. Stop is always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// Supported reports whether mode names a profiling mode of this build.
func Supported(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet controls the profiler's own logging.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

type ignore struct{}

func (ignore) Stop() {}
