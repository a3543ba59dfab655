package pingback

import "strings"

// HostContext is what the hosting environment knows about the current site
type HostContext struct {
	Host   string
	Secure bool
}

// Origin returns scheme://host for the context
func (h HostContext) Origin() string {
	scheme := "http"
	if h.Secure {
		scheme = "https"
	}
	return scheme + "://" + h.Host
}

/* Resolve turns a site-local reference into an absolute URL
 * Only references starting with ".." are treated as local. Every ".." in the
 * string is removed, not just the leading one, and the origin of host is
 * prepended. Anything else is returned untouched.
 */
func Resolve(ref string, host HostContext) string {
	if !strings.HasPrefix(ref, "..") {
		return ref
	}
	return host.Origin() + strings.ReplaceAll(ref, "..", "")
}
