package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/maksimkurb/urlresolver/src/internal/errors"
	"github.com/maksimkurb/urlresolver/src/internal/hostname"
	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/maksimkurb/urlresolver/src/internal/render"
	"github.com/maksimkurb/urlresolver/src/internal/resolver"
	"github.com/maksimkurb/urlresolver/src/internal/utils"
)

// maxLineSize bounds a single input line. Longer lines are skipped.
const maxLineSize = 1024 * 1024

const progressSeparator = "----------------------------------------"

// Options configures a Processor.
type Options struct {
	// Resolve selects resolve mode. Without it every line becomes a bare hostname.
	Resolve bool
	// Dialect is the output syntax in resolve mode.
	Dialect render.Dialect
	// FilterName is substituted into prefix-list templates.
	FilterName string
	// Filter restricts the looked up address families.
	Filter resolver.FilterMode
	// SkipBlankLines drops lines that normalize to an empty hostname.
	SkipBlankLines bool
	// CollectEntries keeps one Entry per processed line in Stats.
	CollectEntries bool
}

// Entry describes one processed input line.
type Entry struct {
	Line     string
	Hostname string
	Result   resolver.Result
}

// Stats summarizes a run.
type Stats struct {
	// Lines is the number of lines written out, skipped blanks excluded.
	Lines int
	// Resolved counts lines that produced at least one address.
	Resolved int
	// Empty counts resolved lines without any address.
	Empty int
	// Entries is filled only with Options.CollectEntries.
	Entries []Entry
}

// Processor runs the line pipeline.
type Processor struct {
	opts     Options
	resolver *resolver.Resolver
	renderer *render.Renderer
}

// New creates a Processor. res may be nil when opts.Resolve is false or the
// dialect does not need addresses.
func New(opts Options, res *resolver.Resolver) *Processor {
	return &Processor{
		opts:     opts,
		resolver: res,
		renderer: render.NewRenderer(opts.Dialect, opts.FilterName),
	}
}

func (p *Processor) needsLookup() bool {
	return p.opts.Resolve && p.opts.Dialect.NeedsAddresses()
}

// Process reads in line by line and writes the rendered output to w.
// The header and footer of the dialect are written in resolve mode only.
// Cancelling ctx stops the run between lines and returns ctx.Err().
func (p *Processor) Process(ctx context.Context, in io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	if p.needsLookup() && p.resolver == nil {
		return stats, errors.NewInternalError("resolve mode requires a resolver", nil)
	}

	out := bufio.NewWriter(w)

	if p.opts.Resolve {
		if err := p.write(out, p.renderer.Header()); err != nil {
			return stats, err
		}
	}

	reader := bufio.NewReaderSize(in, 64*1024)
	lineNo := 0

	for {
		raw, tooLong, err := readLine(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = out.Flush()
			return stats, errors.NewFileAccessError("failed to read input", err)
		}
		lineNo++

		if err := ctx.Err(); err != nil {
			_ = out.Flush()
			return stats, err
		}

		if tooLong {
			log.Warnf("Skipping input line %d: longer than %d bytes", lineNo, maxLineSize)
			continue
		}

		line := strings.TrimSpace(raw)
		host := hostname.Normalize(line)
		if host == "" && p.opts.SkipBlankLines {
			continue
		}

		entry := p.processLine(ctx, line, host)
		if err := p.write(out, p.renderLine(entry)); err != nil {
			return stats, err
		}

		stats.Lines++
		if p.needsLookup() {
			if entry.Result.Empty() {
				stats.Empty++
			} else {
				stats.Resolved++
			}
		}
		if p.opts.CollectEntries {
			stats.Entries = append(stats.Entries, entry)
		}
	}

	if p.opts.Resolve {
		if err := p.write(out, p.renderer.Footer()); err != nil {
			return stats, err
		}
	}

	if err := out.Flush(); err != nil {
		return stats, errors.NewOutputError("failed to write output", err)
	}

	return stats, nil
}

func (p *Processor) processLine(ctx context.Context, line, host string) Entry {
	entry := Entry{Line: line, Hostname: host}

	log.Infof("Processed domain: %s", host)
	if host != "" && !utils.IsDNSName(hostname.ToASCII(host)) && !utils.IsIP(host) {
		log.Debugf("%q does not look like a hostname, the lookup will likely fail", host)
	}
	if p.needsLookup() {
		entry.Result = p.resolver.Resolve(ctx, host, p.opts.Filter)
		if p.opts.Filter.WantIPv4() {
			log.Infof("A records: %s", formatRecords(entry.Result.IPv4))
		}
		if p.opts.Filter.WantIPv6() {
			log.Infof("AAAA records: %s", formatRecords(entry.Result.IPv6))
		}
		if entry.Result.IPv4Err != nil {
			log.Debugf("%v", entry.Result.IPv4Err)
		}
		if entry.Result.IPv6Err != nil {
			log.Debugf("%v", entry.Result.IPv6Err)
		}
	}
	log.Infof("%s", progressSeparator)

	return entry
}

func (p *Processor) renderLine(entry Entry) string {
	if !p.opts.Resolve {
		return render.Hostname(entry.Hostname)
	}
	return p.renderer.Block(entry.Hostname, entry.Line, entry.Result)
}

func (p *Processor) write(out *bufio.Writer, s string) error {
	if s == "" {
		return nil
	}
	if _, err := out.WriteString(s); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is consumed up to its newline and reported with tooLong set.
// io.EOF is returned only when no data is left.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, err := r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize+1 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && !read {
			return "", false, io.EOF
		}
		if err != nil && err != io.EOF {
			return "", false, err
		}
		break
	}

	if tooLong {
		return "", true, nil
	}
	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLineSize {
		return "", true, nil
	}
	return string(buf), false, nil
}

func formatRecords(records []string) string {
	if len(records) == 0 {
		return "None"
	}
	return strings.Join(records, ", ")
}

// String describes the processing mode for log messages.
func (p *Processor) String() string {
	if !p.opts.Resolve {
		return "normalize"
	}
	return fmt.Sprintf("resolve (%s, %s)", p.opts.Dialect, p.opts.Filter)
}
