package pingback

import (
	"strings"
	"time"
)

// Entry is a single line of the activity log
type Entry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// String renders the entry the way it appears in the text log
func (e Entry) String() string {
	return e.Time.Format(time.RFC1123Z) + " : " + e.Message
}

/* Log is the append-only activity record of one Pingback instance
 * Entries are never changed or removed once appended
 */
type Log struct {
	entries []Entry
}

func (l *Log) append(now time.Time, msg string) Entry {
	e := Entry{Time: now, Message: msg}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns a copy of the entries in append order
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	return len(l.entries)
}

// String renders the whole log, one entry per line
func (l *Log) String() string {
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
