package index

import (
	"fmt"

	"github.com/monoid/hprof-dump-parser/hprof"
)

// StringIndex is the name table built from UTF8 records. Payloads are
// copied into Go strings, so the index outlives a slice-backed parse.
type StringIndex struct {
	*Index[hprof.ID, string]
}

func NewStringIndex() *StringIndex {
	return &StringIndex{
		Index: NewIndex[hprof.ID, string](),
	}
}

func (si *StringIndex) AddRecord(rec *hprof.UTF8Record) {
	si.Add(rec.NameID, string(rec.Bytes))
}

func (si *StringIndex) GetOrUnresolved(id hprof.ID) string {
	if text, exists := si.Get(id); exists {
		return text
	}
	return fmt.Sprintf("<unresolved:0x%x>", uint64(id))
}
