// Package enforcement maintains a coalesced, invalidation-correct cache of
// resolved policy enforcers. All cache reads and invalidations of one Provider
// are linearized through a single mailbox goroutine so that an invalidation
// and a concurrently completing load can never race into stale state.
package enforcement

import (
	"strings"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Permission names an operation a subject may be granted on a resource path.
type Permission string

// Built-in permissions.
const (
	PermissionRead  Permission = "READ"
	PermissionWrite Permission = "WRITE"
)

// PolicyEntry grants a set of permissions to one subject on a resource-path
// prefix. Paths are slash-delimited; a grant on "/features" covers
// "/features/lamp" too.
type PolicyEntry struct {
	Subject        string
	ResourcePrefix string
	Permissions    []Permission
}

// Policy is an authorization policy document as delivered by the policy store.
type Policy struct {
	ID      model.PolicyID
	Entries []PolicyEntry
}

// Enforcer is the capability-check object resolved from a policy. It is
// immutable after construction and safe for concurrent use.
type Enforcer struct {
	policyID model.PolicyID
	grants   map[string]map[string]map[Permission]struct{} // subject -> prefix -> permissions
}

// BuildEnforcer resolves a policy document into an Enforcer.
func BuildEnforcer(policy Policy) *Enforcer {
	grants := make(map[string]map[string]map[Permission]struct{})
	for _, entry := range policy.Entries {
		prefixes, ok := grants[entry.Subject]
		if !ok {
			prefixes = make(map[string]map[Permission]struct{})
			grants[entry.Subject] = prefixes
		}
		prefix := normalizePrefix(entry.ResourcePrefix)
		permissions, ok := prefixes[prefix]
		if !ok {
			permissions = make(map[Permission]struct{}, len(entry.Permissions))
			prefixes[prefix] = permissions
		}
		for _, p := range entry.Permissions {
			permissions[p] = struct{}{}
		}
	}

	return &Enforcer{policyID: policy.ID, grants: grants}
}

// PolicyID returns the id of the policy this enforcer was resolved from.
func (e *Enforcer) PolicyID() model.PolicyID { return e.policyID }

// HasPermission reports whether the subject holds the permission on the
// resource path, granted on the path itself or any of its ancestors.
func (e *Enforcer) HasPermission(subject, path string, permission Permission) bool {
	prefixes, ok := e.grants[subject]
	if !ok {
		return false
	}

	candidate := normalizePrefix(path)
	for {
		if permissions, granted := prefixes[candidate]; granted {
			if _, has := permissions[permission]; has {
				return true
			}
		}
		if candidate == "/" {
			return false
		}
		idx := strings.LastIndex(candidate, "/")
		if idx <= 0 {
			candidate = "/"
		} else {
			candidate = candidate[:idx]
		}
	}
}

func normalizePrefix(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}

	return p
}
