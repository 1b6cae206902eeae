package main

import (
	"fmt"
	"net"

	fmhttp "github.com/fwojciec/fmkit/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if !deps.Session.Status().Loaded {
		go func() {
			if err := deps.Session.Refresh(deps.Ctx); err != nil {
				deps.Logger.Warn("initial refresh failed", "err", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}

	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", ln.Addr())
	srv := fmhttp.NewServer(deps.Session, deps.Settings, deps.Faces, deps.Logger)
	return srv.Serve(deps.Ctx, ln)
}
