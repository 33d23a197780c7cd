package tabular

// Row is implemented by table row types to provide
// a stable unique key used for identity and diffing.
//
// Rows are owned by the caller. The table state engine
// never mutates rows, it only computes index sequences
// into the caller's row slice.
type Row interface {
	Key() string
}
