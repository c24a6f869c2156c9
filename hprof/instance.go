package hprof

import "fmt"

/*
* readInstanceDump parses a GC_INSTANCE_DUMP sub-record:
*
* Format:
* 	id    						Object ID
* 	u4    						Stack trace serial number
* 	id    						Class object ID
* 	u4    						Instance data size in bytes
* 	[u1]*                       Instance field values
*
* The data bytes are self-describing only by reference: the field
* layout comes from GC_CLASS_DUMP records seen earlier in the stream.
* Values are laid out in field declaration order, the object's own
* class first, then each superclass walking the super pointers until
* id 0. Every class in that chain must already be in the class table;
* a miss fails the record.
*
* The data region is treated as a bounded sub-stream: after the
* declared fields are decoded, anything the declared size has left
* over is skipped so the enclosing segment framing stays intact.
 */
func readInstanceDump(src byteSource, idr idReader, classes map[ID]*ClassDump) (*InstanceDump, error) {
	instance := &InstanceDump{}

	var err error
	instance.ObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial: %w", err)
	}
	instance.StackTraceSerial = SerialNumber(stackTraceSerial)

	instance.ClassObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class object ID: %w", err)
	}

	instance.DataSize, err = readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance data size: %w", err)
	}

	data := newTakeSource(src, instance.DataSize)

	for classID := instance.ClassObjectID; classID != 0; {
		classDump, ok := classes[classID]
		if !ok {
			return nil, &UnknownClassError{ClassObjectID: classID}
		}

		for _, field := range classDump.InstanceFields {
			value, err := readFieldValue(data, idr, field.Kind)
			if err != nil {
				return nil, fmt.Errorf("failed to read field 0x%x of class 0x%x: %w",
					uint64(field.NameID), uint64(classID), err)
			}
			instance.Values = append(instance.Values, InstanceFieldValue{Field: field, Value: value})
		}

		classID = classDump.SuperClassObjectID
	}

	if _, err := data.close(); err != nil {
		return nil, fmt.Errorf("failed to skip instance data padding: %w", err)
	}

	return instance, nil
}
