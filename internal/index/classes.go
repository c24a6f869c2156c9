package index

import "github.com/monoid/hprof-dump-parser/hprof"

// ClassInfo joins a LOAD_CLASS record with its resolved name.
type ClassInfo struct {
	LoadClass *hprof.LoadClassRecord
	Name      string
}

// ClassIndex tracks loaded classes by class object ID, with a serial
// number side table for records that reference classes by serial.
type ClassIndex struct {
	*Index[hprof.ID, *ClassInfo]
	bySerial map[hprof.SerialNumber]hprof.ID
}

func NewClassIndex() *ClassIndex {
	return &ClassIndex{
		Index:    NewIndex[hprof.ID, *ClassInfo](),
		bySerial: make(map[hprof.SerialNumber]hprof.ID),
	}
}

func (ci *ClassIndex) AddRecord(rec *hprof.LoadClassRecord, name string) {
	ci.Add(rec.ClassObjectID, &ClassInfo{LoadClass: rec, Name: name})
	ci.bySerial[rec.ClassSerial] = rec.ClassObjectID
}

func (ci *ClassIndex) GetBySerial(serial hprof.SerialNumber) (*ClassInfo, bool) {
	id, ok := ci.bySerial[serial]
	if !ok {
		return nil, false
	}
	return ci.Get(id)
}
