package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/urlresolver/src/internal/render"
	"github.com/maksimkurb/urlresolver/src/internal/resolver"
)

type DialectsCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext

	Example bool
}

func CreateDialectsCommand() *DialectsCommand {
	gc := &DialectsCommand{
		fs: flag.NewFlagSet("dialects", flag.ExitOnError),
	}

	gc.fs.BoolVar(&gc.Example, "example", false, "Print a sample block for every dialect")

	return gc
}

func (c *DialectsCommand) Name() string {
	return c.fs.Name()
}

func (c *DialectsCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	return c.fs.Parse(args)
}

func (c *DialectsCommand) Run() error {
	out := c.ctx.stdout()

	sample := resolver.Result{
		IPv4:       []string{"192.0.2.1"},
		IPv6:       []string{"2001:db8::1"},
		IPv4Status: resolver.StatusOK,
		IPv6Status: resolver.StatusOK,
	}

	for _, dialect := range render.Dialects() {
		if !c.Example {
			fmt.Fprintln(out, dialect)
			continue
		}

		r := render.NewRenderer(dialect, "FILTER")
		fmt.Fprintf(out, "== %s ==\n", dialect)
		fmt.Fprint(out, r.Header())
		fmt.Fprint(out, r.Block("example.com", "https://example.com/", sample))
		fmt.Fprint(out, r.Footer())
		fmt.Fprintln(out)
	}

	return nil
}
