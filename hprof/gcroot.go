package hprof

import "fmt"

/*
* readRootUnknown parses a GC_ROOT_UNKNOWN sub-record:
*
* Format:
* 	id    Object ID that is a GC root
 */
func readRootUnknown(src byteSource, idr idReader) (*GCRootUnknown, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	return &GCRootUnknown{ObjectID: objectID}, nil
}

/*
* readRootJNIGlobal parses a GC_ROOT_JNI_GLOBAL sub-record:
*
* Format:
* 	id    Object ID that is referenced
* 	id    JNI global reference ID (used internally by JVM)
 */
func readRootJNIGlobal(src byteSource, idr idReader) (*GCRootJNIGlobal, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	jniGlobalRefID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read JNI global ref ID: %w", err)
	}

	return &GCRootJNIGlobal{ObjectID: objectID, JNIGlobalRefID: jniGlobalRefID}, nil
}

/*
* readRootJNILocal parses a GC_ROOT_JNI_LOCAL sub-record:
*
* Format:
* 	id    Object ID that is referenced
* 	u4    Thread serial number that owns this reference
* 	u4    Frame number in stack trace (-1 for empty/unknown frame)
 */
func readRootJNILocal(src byteSource, idr idReader) (*GCRootJNILocal, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial: %w", err)
	}

	frameNumber, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame number: %w", err)
	}

	return &GCRootJNILocal{
		ObjectID:     objectID,
		ThreadSerial: SerialNumber(threadSerial),
		FrameNumber:  frameNumber,
	}, nil
}

/*
* readRootJavaFrame parses a GC_ROOT_JAVA_FRAME sub-record:
*
* Format:
* 	id    Object ID that is referenced
* 	u4    Thread serial number that owns this stack frame
* 	u4    Frame number in stack trace (-1 for empty/unknown frame)
 */
func readRootJavaFrame(src byteSource, idr idReader) (*GCRootJavaFrame, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial: %w", err)
	}

	frameNumber, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame number: %w", err)
	}

	return &GCRootJavaFrame{
		ObjectID:     objectID,
		ThreadSerial: SerialNumber(threadSerial),
		FrameNumber:  frameNumber,
	}, nil
}

/*
* readRootNativeStack parses a GC_ROOT_NATIVE_STACK sub-record:
*
* Format:
* 	id    Object ID that is referenced
* 	u4    Thread serial number that owns this native stack
 */
func readRootNativeStack(src byteSource, idr idReader) (*GCRootNativeStack, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial: %w", err)
	}

	return &GCRootNativeStack{
		ObjectID:     objectID,
		ThreadSerial: SerialNumber(threadSerial),
	}, nil
}

/*
* readRootStickyClass parses a GC_ROOT_STICKY_CLASS sub-record:
*
* Format:
* 	id    Class object ID that cannot be unloaded
 */
func readRootStickyClass(src byteSource, idr idReader) (*GCRootStickyClass, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	return &GCRootStickyClass{ObjectID: objectID}, nil
}

/*
* readRootThreadBlock parses a GC_ROOT_THREAD_BLOCK sub-record:
*
* Format:
* 	id    Object ID that is being waited on
* 	u4    Thread serial number that is waiting
 */
func readRootThreadBlock(src byteSource, idr idReader) (*GCRootThreadBlock, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial: %w", err)
	}

	return &GCRootThreadBlock{
		ObjectID:     objectID,
		ThreadSerial: SerialNumber(threadSerial),
	}, nil
}

/*
* readRootMonitorUsed parses a GC_ROOT_MONITOR_USED sub-record:
*
* Format:
* 	id    Object ID that has an associated monitor
 */
func readRootMonitorUsed(src byteSource, idr idReader) (*GCRootMonitorUsed, error) {
	objectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read object ID: %w", err)
	}

	return &GCRootMonitorUsed{ObjectID: objectID}, nil
}

/*
* readRootThreadObject parses a GC_ROOT_THREAD_OBJ sub-record:
*
* Format:
* 	id    Thread object ID (may be 0 for threads attached via JNI)
* 	u4    Thread sequence number (unique identifier for the thread)
* 	u4    Stack trace sequence number (links to STACK_TRACE records)
 */
func readRootThreadObject(src byteSource, idr idReader) (*GCRootThreadObject, error) {
	threadObjectID, err := idr.readID(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread object ID: %w", err)
	}

	threadSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread serial: %w", err)
	}

	stackTraceSerial, err := readU4(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack trace serial: %w", err)
	}

	return &GCRootThreadObject{
		ThreadObjectID:   threadObjectID,
		ThreadSerial:     SerialNumber(threadSerial),
		StackTraceSerial: SerialNumber(stackTraceSerial),
	}, nil
}
