package driver

import (
	"strconv"
	"time"
)

// Params is the argument contract of the external test driver for one
// stage invocation.
type Params struct {
	ServerHost string
	ClientHost string
	Repository string
	Ref        string
	Libos      string
	Debug      bool
	TestUnit   bool
	TestSystem string
	Delay      time.Duration
	ServerAddr string
	ClientAddr string
}

// Args renders the parameter set into the driver's flag contract. The
// debug flag is only present for the debug stage, the rest is identical
// between stages.
func (p Params) Args() []string {
	args := []string{
		"--server", p.ServerHost,
		"--client", p.ClientHost,
		"--repository", p.Repository,
		"--branch", p.Ref,
		"--libos", p.Libos,
	}

	if p.Debug {
		args = append(args, "--debug")
	}

	if p.TestUnit {
		args = append(args, "--test-unit")
	}

	if p.TestSystem != "" {
		args = append(args, "--test-system", p.TestSystem)
	}

	args = append(args, "--delay", strconv.FormatFloat(p.Delay.Seconds(), 'f', -1, 64))

	if p.ServerAddr != "" {
		args = append(args, "--server-addr", p.ServerAddr)
	}

	if p.ClientAddr != "" {
		args = append(args, "--client-addr", p.ClientAddr)
	}

	return args
}
