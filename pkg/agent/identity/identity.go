// Package identity derives the stable key that partitions all per-conversation
// state. The key is the room name of the live session; when a room name cannot
// be determined every caller shares the "default" partition.
package identity

import "strings"

// Identity is the opaque key for one ongoing conversation.
type Identity string

// Default is the sentinel identity used when no room name is available.
const Default Identity = "default"

// FromRoom resolves a room name to a conversation identity.
func FromRoom(room string) Identity {
	room = strings.TrimSpace(room)
	if room == "" {
		return Default
	}
	return Identity(room)
}

// String returns the identity as a plain string.
func (id Identity) String() string { return string(id) }

// SafeFileName transliterates free text to a filesystem-safe name: lowercase,
// with every non-alphanumeric character replaced by an underscore. There is no
// collision avoidance beyond this.
func SafeFileName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
