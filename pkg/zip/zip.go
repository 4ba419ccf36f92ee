// Package zip bundles named files into a zip archive.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// File is one archive member.
type File struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// Write streams files as a zip archive into w.
func Write(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}
