package hprof

import "fmt"

/*
readUTF8 parses a UTF8 record

id   		ID for this string
[u1]*		string bytes, no null terminator

The byte count is whatever the record payload has left after the id.
Contrary to the format documentation the bytes are not always valid
UTF-8, so they are passed through unmodified.
*/
func readUTF8(src byteSource, idr idReader, payloadSize uint32) (*UTF8Record, error) {
	nameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read string ID: %w", err)
	}

	if payloadSize < idr.size {
		return nil, fmt.Errorf("UTF8 record payload %d shorter than one identifier", payloadSize)
	}

	bytes, err := src.readBytes(payloadSize - idr.size)
	if err != nil {
		return nil, fmt.Errorf("failed to read string data: %w", err)
	}

	return &UTF8Record{NameID: nameID, Bytes: bytes}, nil
}

/*
readLoadClass parses a LOAD_CLASS record:

u4      Unique class serial number
id      Object ID of the Class object
u4      Stack trace serial number when loaded
id      class name ID - reference to UTF8 string
*/
func readLoadClass(src byteSource, idr idReader) (*LoadClassRecord, error) {
	serial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class serial number: %w", err)
	}

	classObjectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class object ID: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial number: %w", err)
	}

	classNameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class name ID: %w", err)
	}

	return &LoadClassRecord{
		ClassSerial:      SerialNumber(serial),
		ClassObjectID:    classObjectID,
		StackTraceSerial: SerialNumber(stackTraceSerial),
		ClassNameID:      classNameID,
	}, nil
}

/*
readUnloadClass parses an UNLOAD_CLASS record:

u4      Serial number of unloaded class
*/
func readUnloadClass(src byteSource) (*UnloadClassRecord, error) {
	serial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class serial number: %w", err)
	}

	return &UnloadClassRecord{ClassSerial: SerialNumber(serial)}, nil
}

/*
*	readStackFrame parses a STACK_FRAME record:
*
*	id      stack frame ID
*	id      Method name ID (UTF8 reference)
*	id      Method signature ID (UTF8 reference)
*	id      Source file name ID (UTF8 reference)
*	u4      Class serial number
*	i4      Line number. 	>0: normal line
*							-1: unknown
*							-2: compiled method
*							-3: native method
 */
func readStackFrame(src byteSource, idr idReader) (*StackFrameRecord, error) {
	stackFrameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack frame ID: %w", err)
	}

	methodNameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read method name ID: %w", err)
	}

	methodSignatureID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read method signature ID: %w", err)
	}

	sourceFileNameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file name ID: %w", err)
	}

	classSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read class serial number: %w", err)
	}

	lineNumber, err := readI4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read line number: %w", err)
	}

	return &StackFrameRecord{
		StackFrameID:      stackFrameID,
		MethodNameID:      methodNameID,
		MethodSignatureID: methodSignatureID,
		SourceFileNameID:  sourceFileNameID,
		ClassSerial:       SerialNumber(classSerial),
		LineNumber:        lineNumber,
	}, nil
}

/*
readStackTrace parses a STACK_TRACE record:

u4          Stack trace serial number
u4          Thread serial number that produced this trace
u4          Number of frames
[id]*       Array of stack frame IDs (references STACK_FRAME records)
*/
func readStackTrace(src byteSource, idr idReader) (*StackTraceRecord, error) {
	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial number: %w", err)
	}

	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial number: %w", err)
	}

	numFrames, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read number of frames: %w", err)
	}

	stackFrameIDs := make([]ID, numFrames)
	for i := uint32(0); i < numFrames; i++ {
		frameID, err := idr.readID(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame ID %d: %w", i, err)
		}
		stackFrameIDs[i] = frameID
	}

	return &StackTraceRecord{
		StackTraceSerial: SerialNumber(stackTraceSerial),
		ThreadSerial:     SerialNumber(threadSerial),
		StackFrameIDs:    stackFrameIDs,
	}, nil
}

/*
*	readAllocSites parses an ALLOC_SITES record:
*
*	u2      flags
*	u4      cutoff ratio
*	u4      total live bytes
*	u4      total live instances
*	u8      total bytes allocated
*	u8      total instances allocated
*	u4      number of sites that follow
*	[site]* sites, each:
*		u1      array indicator (0: normal object, else element type)
*		u4      class serial number
*		u4      stack trace serial number
*		u4      bytes alive
*		u4      instances alive
*		u4      bytes allocated
*		u4      instances allocated
 */
func readAllocSites(src byteSource) (*AllocSitesRecord, error) {
	flags, err := readU2(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	cutoffRatio, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read cutoff ratio: %w", err)
	}

	liveBytes, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read live bytes: %w", err)
	}

	liveInstances, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read live instances: %w", err)
	}

	allocBytes, err := readU8(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read bytes allocated: %w", err)
	}

	allocInstances, err := readU8(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read instances allocated: %w", err)
	}

	numSites, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read site count: %w", err)
	}

	sites := make([]AllocSite, numSites)
	for i := uint32(0); i < numSites; i++ {
		site, err := readAllocSite(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read site %d: %w", i, err)
		}
		sites[i] = site
	}

	return &AllocSitesRecord{
		Flags:          flags,
		CutoffRatio:    cutoffRatio,
		LiveBytes:      liveBytes,
		LiveInstances:  liveInstances,
		AllocBytes:     allocBytes,
		AllocInstances: allocInstances,
		Sites:          sites,
	}, nil
}

func readAllocSite(src byteSource) (AllocSite, error) {
	arrayKind, err := readU1(src)
	if err != nil {
		return AllocSite{}, err
	}

	classSerial, err := readU4(src)
	if err != nil {
		return AllocSite{}, err
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return AllocSite{}, err
	}

	liveBytes, err := readU4(src)
	if err != nil {
		return AllocSite{}, err
	}

	liveInstances, err := readU4(src)
	if err != nil {
		return AllocSite{}, err
	}

	allocBytes, err := readU4(src)
	if err != nil {
		return AllocSite{}, err
	}

	allocInstances, err := readU4(src)
	if err != nil {
		return AllocSite{}, err
	}

	return AllocSite{
		ArrayKind:        arrayKind,
		ClassSerial:      SerialNumber(classSerial),
		StackTraceSerial: SerialNumber(stackTraceSerial),
		LiveBytes:        liveBytes,
		LiveInstances:    liveInstances,
		AllocBytes:       allocBytes,
		AllocInstances:   allocInstances,
	}, nil
}

/*
*	readHeapSummary parses a HEAP_SUMMARY record
*
*	u4		total live bytes
*	u4		total live instances
*	u8		total bytes allocated
*	u8		total instances allocated
 */
func readHeapSummary(src byteSource) (*HeapSummaryRecord, error) {
	liveBytes, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read live bytes: %w", err)
	}

	liveInstances, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read live instances: %w", err)
	}

	allocBytes, err := readU8(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read bytes allocated: %w", err)
	}

	allocInstances, err := readU8(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read instances allocated: %w", err)
	}

	return &HeapSummaryRecord{
		LiveBytes:      liveBytes,
		LiveInstances:  liveInstances,
		AllocBytes:     allocBytes,
		AllocInstances: allocInstances,
	}, nil
}

/*
* readStartThread parses a START_THREAD record
*
* 	u4		thread serial number (> 0)
* 	id		thread object ID
* 	u4		stack trace serial number
* 	id		thread name ID (references UTF8)
* 	id		thread group name ID (references UTF8)
* 	id		thread group parent name ID (references UTF8)
 */
func readStartThread(src byteSource, idr idReader) (*StartThreadRecord, error) {
	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial number: %w", err)
	}

	threadObjectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread object ID: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial number: %w", err)
	}

	threadNameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread name ID: %w", err)
	}

	threadGroupNameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread group name ID: %w", err)
	}

	parentThreadGroupNameID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read parent thread group name ID: %w", err)
	}

	return &StartThreadRecord{
		ThreadSerial:            SerialNumber(threadSerial),
		ThreadObjectID:          threadObjectID,
		StackTraceSerial:        SerialNumber(stackTraceSerial),
		ThreadNameID:            threadNameID,
		ThreadGroupNameID:       threadGroupNameID,
		ParentThreadGroupNameID: parentThreadGroupNameID,
	}, nil
}

/*
* readEndThread parses an END_THREAD record
*
* u4    - thread serial number
 */
func readEndThread(src byteSource) (*EndThreadRecord, error) {
	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial number: %w", err)
	}

	return &EndThreadRecord{ThreadSerial: SerialNumber(threadSerial)}, nil
}
