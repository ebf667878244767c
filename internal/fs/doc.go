// Package fs abstracts the file operations of the local blob store so tests
// can inject write failures.
//
// Production code uses fs.Default ([LocalFS]). Tests wrap it in [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("model-", fs.Fault{FailAfterBytes: 16})
//
// Operations take no context.Context: local file operations are not
// interruptible at the syscall level. Slow stores go through blobstore.Blob,
// which does take a context.
package fs
