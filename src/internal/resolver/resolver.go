// Package resolver looks up the A and AAAA records of a hostname.
//
// Lookups never fail the caller: every failure (NXDOMAIN, timeout, server
// unreachable, even a panicking backend) collapses into an empty address set
// for that family, with the reason kept in Result for diagnostics.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/maksimkurb/urlresolver/src/internal/errors"
	"github.com/maksimkurb/urlresolver/src/internal/hostname"
	"github.com/maksimkurb/urlresolver/src/internal/log"
	"github.com/maksimkurb/urlresolver/src/internal/resolver/upstreams"
	"github.com/maksimkurb/urlresolver/src/internal/utils"
)

// Options configures a Resolver.
type Options struct {
	// Server overrides the system resolver for every lookup, see
	// upstreams.ParseUpstream for accepted formats. Empty means system default.
	Server string
	// Timeout bounds each single-family lookup. Zero leaves it to the backend.
	Timeout time.Duration
	// CacheSize is the number of results kept for repeated hostnames. Zero disables caching.
	CacheSize int
}

// Resolver resolves hostnames sequentially through one Backend.
type Resolver struct {
	backend Backend
	timeout time.Duration
	cache   *resultCache
}

// New builds a Resolver from opts.
func New(opts Options) (*Resolver, error) {
	if opts.Server == "" {
		return NewWithBackend(NewSystemBackend(nil), opts.Timeout).WithCache(opts.CacheSize), nil
	}

	upstream, err := upstreams.ParseUpstream(opts.Server)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("invalid DNS server %q", opts.Server), err)
	}
	log.Debugf("Using DNS server %s", upstream)

	return NewWithBackend(NewUpstreamBackend(upstream), opts.Timeout).WithCache(opts.CacheSize), nil
}

// NewWithBackend builds a Resolver over an arbitrary backend.
func NewWithBackend(backend Backend, timeout time.Duration) *Resolver {
	return &Resolver{backend: backend, timeout: timeout}
}

// WithCache enables a result cache of size entries; size <= 0 disables it.
func (r *Resolver) WithCache(size int) *Resolver {
	r.cache = newResultCache(size)
	return r
}

// Resolve looks up host according to filter. Families excluded by filter are
// not queried at all, and an empty host performs no lookups.
func (r *Resolver) Resolve(ctx context.Context, host string, filter FilterMode) Result {
	var res Result
	if host == "" {
		return res
	}

	key := cacheKey{host: host, filter: filter}
	if cached, ok := r.cache.get(key); ok {
		log.Debugf("Using cached result for %s", host)
		return cached
	}

	query := hostname.ToASCII(host)
	if query != host {
		log.Debugf("Querying %s as %s", host, query)
	}

	if filter.WantIPv4() {
		res.IPv4, res.IPv4Status, res.IPv4Err = r.lookup(ctx, "A", query, r.backend.LookupA, utils.IsIPv4)
	}
	if filter.WantIPv6() {
		res.IPv6, res.IPv6Status, res.IPv6Err = r.lookup(ctx, "AAAA", query, r.backend.LookupAAAA, utils.IsIPv6)
	}

	r.cache.put(key, res)
	return res
}

func (r *Resolver) lookup(
	ctx context.Context,
	rrType, host string,
	fn func(context.Context, string) ([]string, error),
	keep func(string) bool,
) (addrs []string, status Status, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			addrs, status = nil, StatusFailed
			err = errors.NewDNSError(fmt.Sprintf("%s lookup for %s failed", rrType, host), fmt.Errorf("panic: %v", recovered))
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	found, lookupErr := fn(ctx, host)
	if lookupErr != nil {
		status = StatusFailed
		if isNotFound(lookupErr) {
			status = StatusNoRecords
		}
		log.Debugf("%s lookup for %s via %s failed: %v", rrType, host, r.backend, lookupErr)
		return nil, status, errors.NewDNSError(fmt.Sprintf("%s lookup for %s failed", rrType, host), lookupErr)
	}

	for _, addr := range found {
		if keep(addr) {
			addrs = append(addrs, addr)
		}
	}
	addrs = utils.Dedup(addrs)

	if len(addrs) == 0 {
		return nil, StatusNoRecords, nil
	}
	return addrs, StatusOK, nil
}

// Close releases the backend.
func (r *Resolver) Close() error {
	return r.backend.Close()
}

// String names the backend in use.
func (r *Resolver) String() string {
	return r.backend.String()
}
