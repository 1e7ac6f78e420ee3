package storage

import (
	"io"
	"path"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}

// ReportKey is the canonical location of a batch run report. name is either a
// run id or "latest".
func ReportKey(classID, termID, name string) string {
	return path.Join("reports", classID, termID, name+".csv")
}
