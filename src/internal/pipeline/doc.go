// Package pipeline drives one urlresolver run: it reads input lines,
// normalizes each to a hostname, optionally resolves it and writes the
// rendered result.
//
// Lines are processed strictly one after another. A failed lookup never
// stops the run; only reading the input or writing the output can.
//
// Example:
//
//	proc := pipeline.New(pipeline.Options{
//	    Resolve:    true,
//	    Dialect:    render.CiscoPrefixList,
//	    FilterName: "FILTER",
//	}, res)
//	stats, err := proc.Process(ctx, in, out)
package pipeline
