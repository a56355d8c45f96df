package viya

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

// Platform detects the SAS Viya release from the licenses service. The result
// is cached for the life of the process.
type Platform struct {
	c        *Client
	override domain.PlatformVersion

	mu      sync.Mutex
	version domain.PlatformVersion
}

// NewPlatform returns a detector. A non-empty override ("3.5" or "4") skips
// detection.
func NewPlatform(c *Client, override string) (*Platform, error) {
	p := &Platform{c: c}
	if override != "" {
		v, err := ParsePlatformVersion(override)
		if err != nil {
			return nil, err
		}
		p.override = v
	}
	return p, nil
}

var _ ports.PlatformInfo = (*Platform)(nil)

// ParsePlatformVersion accepts release strings as reported by SAS
// (V03, V04, 2023.10) or plain 3.5 and 4.
func ParsePlatformVersion(s string) (domain.PlatformVersion, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case s == "":
		return domain.PlatformUnknown, fmt.Errorf("empty SAS Viya release")
	case strings.HasPrefix(s, "V03"), strings.HasPrefix(s, "3"):
		return domain.Viya35, nil
	case strings.HasPrefix(s, "V04"), strings.HasPrefix(s, "V4"), strings.HasPrefix(s, "4"), strings.HasPrefix(s, "20"):
		// Viya 4 uses calendar versions such as 2023.10.
		return domain.Viya4, nil
	default:
		return domain.PlatformUnknown, fmt.Errorf("unrecognized SAS Viya release %q", s)
	}
}

func (p *Platform) PlatformVersion(ctx context.Context) (domain.PlatformVersion, error) {
	if p.override != domain.PlatformUnknown {
		return p.override, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.version != domain.PlatformUnknown {
		return p.version, nil
	}

	var grants struct {
		Release string `json:"release"`
	}
	_, err := p.c.get(ctx, "/licenses/grants", nil, &grants)
	if IsNotFound(err) {
		// 3.5 deployments have no grants endpoint.
		p.version = domain.Viya35
		return p.version, nil
	}
	if err != nil {
		return domain.PlatformUnknown, fmt.Errorf("get license grants: %w", err)
	}
	v, err := ParsePlatformVersion(grants.Release)
	if err != nil {
		return domain.PlatformUnknown, err
	}
	p.version = v
	log.WithFields(log.Fields{"release": grants.Release, "version": v.String()}).Info("Detected SAS Viya release")
	return v, nil
}
