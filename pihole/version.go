package pihole

import (
	"context"
	"strings"

	"github.com/blang/semver"
)

// ComponentUpdate reports that a newer release exists for one Pi-hole
// component.
type ComponentUpdate struct {
	Name   string
	Local  semver.Version
	Remote semver.Version
}

// parseComponentVersion parses a reported version string, tolerating the
// leading "v" and development suffixes Pi-hole uses.
func parseComponentVersion(raw *string) (semver.Version, bool) {
	if raw == nil {
		return semver.Version{}, false
	}
	s := strings.TrimSpace(*raw)
	s = strings.TrimPrefix(s, "v")
	if s == "" {
		return semver.Version{}, false
	}
	v, err := semver.ParseTolerant(s)
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

// componentUpdate compares local and remote versions of one component.
func componentUpdate(name string, comp Component) (ComponentUpdate, bool) {
	local, ok := parseComponentVersion(comp.Local.Version)
	if !ok {
		return ComponentUpdate{}, false
	}
	remote, ok := parseComponentVersion(comp.Remote.Version)
	if !ok {
		return ComponentUpdate{}, false
	}
	if remote.GT(local) {
		return ComponentUpdate{Name: name, Local: local, Remote: remote}, true
	}
	return ComponentUpdate{}, false
}

// Updates returns the components with a newer remote release than the
// installed version. Components reporting unparseable or development
// versions are skipped.
func (v *VersionInfo) Updates() []ComponentUpdate {
	var updates []ComponentUpdate
	for _, candidate := range []struct {
		name string
		comp Component
	}{
		{"core", v.Version.Core},
		{"web", v.Version.Web},
		{"ftl", v.Version.FTL},
	} {
		if update, ok := componentUpdate(candidate.name, candidate.comp); ok {
			updates = append(updates, update)
		}
	}
	return updates
}

// CheckUpdates fetches the version info and reports available component
// updates.
func (c *Client) CheckUpdates(ctx context.Context) ([]ComponentUpdate, error) {
	info, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}
	return info.Updates(), nil
}
