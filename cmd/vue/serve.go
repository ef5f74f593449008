package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeyan1996/vue/internal/warn"
	"github.com/yeyan1996/vue/pkg/runtime"
	"github.com/yeyan1996/vue/pkg/server"
	"github.com/yeyan1996/vue/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var (
		address string
		dev     bool
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo counter application",
		Long: `Serve the built-in counter application.

Examples:
  vue serve
  vue serve --address=:3000
  vue serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(address, dev, metrics, tracing)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development diagnostics")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Enable OpenTelemetry request tracing")

	return cmd
}

func runServe(address string, dev, metrics, tracing bool) error {
	warn.Dev = dev

	config := server.DefaultConfig()
	config.Address = address
	config.PageTitle = "counter"
	config.EnableMetrics = metrics
	config.EnableTracing = tracing

	srv := server.New(counterApp(), config)

	// Shut down cleanly on SIGINT/SIGTERM.
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		return err
	case <-sig:
		return srv.Shutdown(context.Background())
	}
}

// counterApp is the demo application: a counter with increment and
// decrement buttons.
func counterApp() runtime.Options {
	return runtime.Options{
		Name: "counter",
		Data: func() map[string]any {
			return map[string]any{"count": 0}
		},
		Computed: map[string]func(*runtime.Component) any{
			"parity": func(c *runtime.Component) any {
				if c.Get("count").(int)%2 == 0 {
					return "even"
				}
				return "odd"
			},
		},
		Render: func(c *runtime.Component) *vdom.VNode {
			count := c.Get("count").(int)
			return vdom.NewElement("div", &vdom.Data{Attrs: map[string]string{"class": "counter"}},
				vdom.NewElement("button", &vdom.Data{
					On: map[string]func(any){
						"click": func(any) { c.Set("count", c.Get("count").(int)-1) },
					},
				}, vdom.NewText("-")),
				vdom.NewElement("span", &vdom.Data{},
					vdom.NewText(strconv.Itoa(count)+" ("+c.Get("parity").(string)+")")),
				vdom.NewElement("button", &vdom.Data{
					On: map[string]func(any){
						"click": func(any) { c.Set("count", c.Get("count").(int)+1) },
					},
				}, vdom.NewText("+")),
			)
		},
	}
}
