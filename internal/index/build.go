package index

import "github.com/monoid/hprof-dump-parser/hprof"

// Snapshot is the result of draining one iterator: the name and class
// tables plus per-kind statistics.
type Snapshot struct {
	Banner    string
	Timestamp hprof.Ts
	IDSize    uint32

	Strings *StringIndex
	Classes *ClassIndex
	Stats   *Stats
}

// Build drains the iterator into a snapshot. The iterator's error, if
// it stopped on one, is returned alongside whatever was indexed up to
// that point.
func Build(it *hprof.Iterator) (*Snapshot, error) {
	snap := &Snapshot{
		Banner:    it.Banner(),
		Timestamp: it.Timestamp(),
		IDSize:    it.IDSize(),
		Strings:   NewStringIndex(),
		Classes:   NewClassIndex(),
		Stats:     NewStats(it.IDSize()),
	}

	for it.Next() {
		entry := it.Entry()
		snap.Stats.Observe(entry.Record)

		switch rec := entry.Record.(type) {
		case *hprof.UTF8Record:
			snap.Strings.AddRecord(rec)
		case *hprof.LoadClassRecord:
			snap.Classes.AddRecord(rec, snap.Strings.GetOrUnresolved(rec.ClassNameID))
		}
	}

	return snap, it.Err()
}
