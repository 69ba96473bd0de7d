// Package archive streams template files into a compressed archive and back
// out onto disk.
//
// Three container formats are supported: zip (deflate), tar.gz, and tar.zst.
// Writing appends one source file at a time and returns only after the
// archive file has been finalized, synced, and closed. Reading is pull-based:
// callers ask a Reader for the next entry once they are done with the current
// one, so extraction holds at most one output file open.
package archive
