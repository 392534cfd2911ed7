package sheets

import (
	"context"

	"github.com/cockroachdb/errors"
	drivev3 "google.golang.org/api/drive/v3"
)

// CopiedFile identifies a freshly copied Drive file.
type CopiedFile struct {
	ID  string
	URL string
}

// CopyTemplate copies the distinta template spreadsheet into the
// destination folder under the given name and returns the copy's id and
// browser URL.
func (c *Client) CopyTemplate(ctx context.Context, templateFileID, folderID, name string) (CopiedFile, error) {
	meta := &drivev3.File{
		Name:    name,
		Parents: []string{folderID},
	}
	f, err := c.drive.Files.Copy(templateFileID, meta).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return CopiedFile{}, errors.Wrapf(err, "copia template %s", templateFileID)
	}
	return CopiedFile{ID: f.Id, URL: f.WebViewLink}, nil
}
