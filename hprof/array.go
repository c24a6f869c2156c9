package hprof

import "fmt"

/*
* readObjectArrayDump parses a GC_OBJ_ARRAY_DUMP sub-record:
*
* Format:
* 	id    						Array object ID
* 	u4    						Stack trace serial number
* 	u4    						Array length (number of elements)
* 	id    						Array class object ID
* 	[id]*                       Array elements (object references)
*
* When loadElements is off the element identifiers are skipped, exactly
* count times the identifier size, and the record carries no payload.
 */
func readObjectArrayDump(src byteSource, idr idReader, loadElements bool) (*ObjectArrayDump, error) {
	array := &ObjectArrayDump{}

	var err error
	array.ObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read array object ID: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial: %w", err)
	}
	array.StackTraceSerial = SerialNumber(stackTraceSerial)

	array.Count, err = readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read array length: %w", err)
	}

	array.ArrayClassObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read array class ID: %w", err)
	}

	if !loadElements {
		if err := src.skip(array.Count * idr.size); err != nil {
			return nil, fmt.Errorf("failed to skip array elements: %w", err)
		}
		return array, nil
	}

	array.Elements = make([]ID, array.Count)
	for i := uint32(0); i < array.Count; i++ {
		elementID, err := idr.readID(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read array element %d: %w", i, err)
		}
		array.Elements[i] = elementID
	}

	return array, nil
}

/*
* readPrimitiveArrayDump parses a GC_PRIM_ARRAY_DUMP sub-record:
*
* Format:
* 	id    						Array object ID
* 	u4    						Stack trace serial number
* 	u4    						Array length (number of elements)
* 	u1    						Element kind (see FieldKind)
* 	[u1]*                       Array elements (primitive data)
*
* Elements are fixed-width big-endian scalars of the element kind;
* booleans are one byte each, nonzero meaning true. An object element
* kind is invalid here. When loadElements is off the element bytes are
* skipped, exactly count times the element size.
 */
func readPrimitiveArrayDump(src byteSource, idr idReader, loadElements bool) (*PrimitiveArrayDump, error) {
	array := &PrimitiveArrayDump{}

	var err error
	array.ObjectID, err = idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read array object ID: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial: %w", err)
	}
	array.StackTraceSerial = SerialNumber(stackTraceSerial)

	array.Count, err = readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read array length: %w", err)
	}

	rawKind, err := readU1(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read element kind: %w", err)
	}
	array.ElementKind = FieldKind(rawKind)

	if array.ElementKind == KindObject {
		return nil, &FieldError{Reason: "object element kind in primitive array"}
	}
	elementSize := array.ElementKind.Size(idr.size)
	if elementSize == 0 {
		return nil, &FieldError{Reason: fmt.Sprintf("unknown primitive array element kind 0x%02x", rawKind)}
	}

	if !loadElements {
		if err := src.skip(array.Count * uint32(elementSize)); err != nil {
			return nil, fmt.Errorf("failed to skip array elements: %w", err)
		}
		return array, nil
	}

	array.Elements, err = readPrimitiveElements(src, array.ElementKind, array.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to read array elements: %w", err)
	}

	return array, nil
}

func readPrimitiveElements(src byteSource, kind FieldKind, count uint32) (any, error) {
	switch kind {
	case KindBool:
		elements := make([]bool, count)
		for i := range elements {
			b, err := readU1(src)
			if err != nil {
				return nil, err
			}
			elements[i] = b != 0
		}
		return elements, nil

	case KindChar:
		elements := make([]uint16, count)
		for i := range elements {
			v, err := readU2(src)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return elements, nil

	case KindFloat:
		elements := make([]float32, count)
		for i := range elements {
			v, err := readF4(src)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return elements, nil

	case KindDouble:
		elements := make([]float64, count)
		for i := range elements {
			v, err := readF8(src)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return elements, nil

	case KindByte:
		buf, err := src.readBytes(count)
		if err != nil {
			return nil, err
		}
		elements := make([]int8, count)
		for i, b := range buf {
			elements[i] = int8(b)
		}
		return elements, nil

	case KindShort:
		elements := make([]int16, count)
		for i := range elements {
			v, err := readU2(src)
			if err != nil {
				return nil, err
			}
			elements[i] = int16(v)
		}
		return elements, nil

	case KindInt:
		elements := make([]int32, count)
		for i := range elements {
			v, err := readI4(src)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return elements, nil

	case KindLong:
		elements := make([]int64, count)
		for i := range elements {
			v, err := readU8(src)
			if err != nil {
				return nil, err
			}
			elements[i] = int64(v)
		}
		return elements, nil

	default:
		return nil, &FieldError{Reason: fmt.Sprintf("unknown primitive array element kind 0x%02x", byte(kind))}
	}
}
