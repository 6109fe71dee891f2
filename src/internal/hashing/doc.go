// Package hashing computes MD5 checksums of streamed output.
//
// The resolve and normalize commands wrap their output in a
// ChecksumWriterProxy and compare the result with the checksum of the file
// they overwrite, to report whether the rendered configuration changed.
//
// Example:
//
//	before, _ := hashing.FileChecksum(path)
//	proxy := hashing.NewMD5WriterProxy(file)
//	// ... write through proxy ...
//	after, _ := proxy.GetChecksum()
//	changed := before != after
package hashing
