package hprof

import "fmt"

/*
* readClassDump parses a GC_CLASS_DUMP sub-record:
*
* GC_CLASS_DUMP contains the complete class definition:
* - Class metadata (superclass, class loader, etc.)
* - Constant pool entries
* - Static field definitions with values
* - Instance field definitions (without values)
*
* Format:
* 	id    						Class object ID
* 	u4    						Stack trace where class was loaded
* 	id    						Superclass object ID (0 for java.lang.Object)
* 	id    						Class loader object ID (0 for bootstrap)
* 	id    						Signers object ID (usually 0)
* 	id    						Protection domain object ID (usually 0)
* 	id    						Reserved field (always 0)
* 	id    						Reserved field (always 0)
* 	u4    						Size of instances of this class in bytes
*
* 	u2							Number of constant pool entries
* 	[constant_pool_entry]*      Constant pool entries
*
* 	u2    				        Number of static fields
* 	[static_field]*             Static field definitions with values
*
* 	u2							Number of instance fields
* 	[instance_field]*           Instance field definitions (no values)
*
* Constant pool entry format:
* 	u2                          Constant pool index
* 	u1                          Value kind (FieldKind)
* 	[value]                     Value data (size depends on kind)
*
* Static field format:
* 	id                         	Field name string ID
* 	u1                         	Field kind (FieldKind)
* 	[value]                     Field value (size depends on kind)
*
* Instance field format:
* 	id                         	Field name string ID
* 	u1                          Field kind (FieldKind)
*                               (No value - values are in INSTANCE_DUMP records)
 */
func readClassDump(src byteSource, idr idReader) (*ClassDump, error) {
	classDump := &ClassDump{}

	var err error
	classDump.ClassObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class object ID: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial: %w", err)
	}
	classDump.StackTraceSerial = SerialNumber(stackTraceSerial)

	classDump.SuperClassObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read superclass object ID: %w", err)
	}

	classDump.ClassLoaderObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class loader object ID: %w", err)
	}

	classDump.SignersObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read signers object ID: %w", err)
	}

	classDump.ProtectionDomainObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read protection domain object ID: %w", err)
	}

	classDump.Reserved1, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read reserved1: %w", err)
	}

	classDump.Reserved2, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read reserved2: %w", err)
	}

	classDump.InstanceSize, err = readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance size: %w", err)
	}

	constPoolCount, err := readU2(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read constant pool size: %w", err)
	}

	classDump.ConstantPool = make([]ConstantPoolEntry, constPoolCount)
	for i := uint16(0); i < constPoolCount; i++ {
		entry, err := readConstantPoolEntry(src, idr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse constant pool entry %d: %w", i, err)
		}
		classDump.ConstantPool[i] = entry
	}

	staticCount, err := readU2(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read static fields count: %w", err)
	}

	classDump.StaticFields = make([]StaticField, staticCount)
	for i := uint16(0); i < staticCount; i++ {
		field, err := readStaticField(src, idr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse static field %d: %w", i, err)
		}
		classDump.StaticFields[i] = field
	}

	instanceFieldCount, err := readU2(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance fields count: %w", err)
	}

	classDump.InstanceFields = make([]InstanceField, instanceFieldCount)
	for i := uint16(0); i < instanceFieldCount; i++ {
		field, err := readInstanceField(src, idr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse instance field %d: %w", i, err)
		}
		classDump.InstanceFields[i] = field
	}

	return classDump, nil
}

func readConstantPoolEntry(src byteSource, idr idReader) (ConstantPoolEntry, error) {
	index, err := readU2(src)
	if err != nil {
		return ConstantPoolEntry{}, fmt.Errorf("failed to read constant pool index: %w", err)
	}

	value, err := readTaggedFieldValue(src, idr)
	if err != nil {
		return ConstantPoolEntry{}, err
	}

	return ConstantPoolEntry{Index: index, Value: value}, nil
}

func readStaticField(src byteSource, idr idReader) (StaticField, error) {
	nameID, err := idr.readID(src)
	if err != nil {
		return StaticField{}, fmt.Errorf("failed to read static field name ID: %w", err)
	}

	value, err := readTaggedFieldValue(src, idr)
	if err != nil {
		return StaticField{}, err
	}

	return StaticField{NameID: nameID, Value: value}, nil
}

func readInstanceField(src byteSource, idr idReader) (InstanceField, error) {
	nameID, err := idr.readID(src)
	if err != nil {
		return InstanceField{}, fmt.Errorf("failed to read instance field name ID: %w", err)
	}

	rawKind, err := readU1(src)
	if err != nil {
		return InstanceField{}, fmt.Errorf("failed to read instance field kind: %w", err)
	}
	kind := FieldKind(rawKind)
	if kind.Size(idr.size) == 0 {
		return InstanceField{}, &FieldError{Reason: fmt.Sprintf("unknown field kind 0x%02x", rawKind)}
	}

	return InstanceField{NameID: nameID, Kind: kind}, nil
}

// readTaggedFieldValue reads a u1 kind byte followed by one scalar of
// that kind.
func readTaggedFieldValue(src byteSource, idr idReader) (FieldValue, error) {
	rawKind, err := readU1(src)
	if err != nil {
		return FieldValue{}, fmt.Errorf("failed to read field kind: %w", err)
	}

	return readFieldValue(src, idr, FieldKind(rawKind))
}

// readFieldValue decodes one scalar of the given kind. Object values
// are identifiers and honor the configured identifier byte order.
func readFieldValue(src byteSource, idr idReader, kind FieldKind) (FieldValue, error) {
	switch kind {
	case KindObject:
		id, err := idr.readID(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: id}, nil

	case KindBool:
		b, err := readU1(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: b != 0}, nil

	case KindChar:
		v, err := readU2(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: v}, nil

	case KindFloat:
		v, err := readF4(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: v}, nil

	case KindDouble:
		v, err := readF8(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: v}, nil

	case KindByte:
		b, err := readU1(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: int8(b)}, nil

	case KindShort:
		v, err := readU2(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: int16(v)}, nil

	case KindInt:
		v, err := readI4(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: v}, nil

	case KindLong:
		v, err := readU8(src)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Value: int64(v)}, nil

	default:
		return FieldValue{}, &FieldError{Reason: fmt.Sprintf("unknown field kind 0x%02x", byte(kind))}
	}
}
