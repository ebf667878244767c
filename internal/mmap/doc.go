// Package mmap maps local frame and snapshot blobs read-only into memory.
//
// Frames are decoded column by column in one front-to-back sweep, so blobs
// are usually opened with AccessSequential:
//
//	m, err := mmap.Open(path, mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//	data, err := m.Bytes()
//
// Unix platforms use mmap(2) and madvise(2). On Windows the file is mapped
// with MapViewOfFile and the access hint is ignored.
package mmap
