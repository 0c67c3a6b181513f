package main

import (
	"fmt"

	sifthttp "github.com/fwojciec/sift/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	var opts []sifthttp.ServerOption
	if deps.Logger != nil {
		opts = append(opts, sifthttp.WithLogger(deps.Logger))
	}
	if deps.Metrics != nil {
		opts = append(opts, sifthttp.WithMetricsHandler(deps.Metrics))
	}

	srv := sifthttp.NewServer(deps.Service, opts...)
	srv.Addr = c.Addr
	if err := srv.Open(); err != nil {
		return fmt.Errorf("listening on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.URL())

	<-deps.Ctx.Done()
	return srv.Close()
}
