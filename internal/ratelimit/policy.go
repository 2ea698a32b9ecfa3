// Package ratelimit implements fixed-window request throttling keyed by
// (client, route). The counting store is pluggable: the in-memory store is
// the default, a Redis-backed store exists for deployments that want the
// counters shared across instances.
package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/propdata/property-api/internal/core/domain"
)

// Policy is a parsed "N/period" rate-limit declaration.
type Policy struct {
	Limit  int
	Window time.Duration
}

// ParsePolicy parses a policy string of the shape "N/period" where period is
// one of second, minute, hour. The empty string yields a zero Policy,
// meaning unthrottled. Anything else is a configuration error.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return Policy{}, nil
	}

	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return Policy{}, fmt.Errorf("%w: rate policy %q is not of the form N/period", domain.ErrConfiguration, s)
	}

	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || n <= 0 {
		return Policy{}, fmt.Errorf("%w: rate policy %q has a non-positive limit", domain.ErrConfiguration, s)
	}

	var window time.Duration
	switch strings.TrimSpace(parts[1]) {
	case "second":
		window = time.Second
	case "minute":
		window = time.Minute
	case "hour":
		window = time.Hour
	default:
		return Policy{}, fmt.Errorf("%w: rate policy %q has unknown period (want second, minute or hour)", domain.ErrConfiguration, s)
	}

	return Policy{Limit: n, Window: window}, nil
}

// Zero reports whether the policy disables throttling.
func (p Policy) Zero() bool {
	return p.Limit == 0
}

func (p Policy) String() string {
	if p.Zero() {
		return "unlimited"
	}
	return fmt.Sprintf("%d/%s", p.Limit, p.Window)
}
