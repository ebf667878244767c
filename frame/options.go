package frame

// DefaultChunkRows is the default number of rows per chunk.
const DefaultChunkRows = 4096

type options struct {
	chunkRows int
	names     []string
}

// Option configures a Frame.
type Option func(*options)

// WithChunkRows sets the number of rows per chunk.
// Values below one are ignored.
func WithChunkRows(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkRows = n
		}
	}
}

// WithNames sets the column names. Unnamed columns are called "C<i>".
func WithNames(names ...string) Option {
	return func(o *options) {
		o.names = names
	}
}

func applyOptions(optFns []Option) options {
	o := options{chunkRows: DefaultChunkRows}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
