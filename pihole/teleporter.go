package pihole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// TeleporterGravitySelection picks which gravity database tables a teleporter
// import restores.
type TeleporterGravitySelection struct {
	Group             bool `json:"group"`
	Adlist            bool `json:"adlist"`
	AdlistByGroup     bool `json:"adlist_by_group"`
	Domainlist        bool `json:"domainlist"`
	DomainlistByGroup bool `json:"domainlist_by_group"`
	Client            bool `json:"client"`
	ClientByGroup     bool `json:"client_by_group"`
}

// TeleporterImportOptions selects which archived sections an import restores.
// A nil options value restores everything.
type TeleporterImportOptions struct {
	Config     bool                        `json:"config"`
	DHCPLeases bool                        `json:"dhcp_leases"`
	Gravity    *TeleporterGravitySelection `json:"gravity,omitempty"`
}

// TeleporterImport reports which archived files an import processed.
type TeleporterImport struct {
	Files []string `json:"files"`
	Took  float64  `json:"took"`
}

// ExportSettings downloads the teleporter archive: an opaque byte stream
// bundling configuration and blocklist state.
func (c *Client) ExportSettings(ctx context.Context) ([]byte, error) {
	return c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "teleporter",
		binary: true,
	})
}

// ImportSettings uploads a teleporter archive from disk.
func (c *Client) ImportSettings(ctx context.Context, path string, opts *TeleporterImportOptions) (*TeleporterImport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open teleporter archive: %w", err)
	}
	defer file.Close()

	return c.ImportSettingsReader(ctx, filepath.Base(path), file, opts)
}

// ImportSettingsReader uploads a teleporter archive from a reader.
func (c *Client) ImportSettingsReader(ctx context.Context, filename string, archive io.Reader, opts *TeleporterImportOptions) (*TeleporterImport, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "application/gzip")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, archive); err != nil {
		return nil, fmt.Errorf("failed to read teleporter archive: %w", err)
	}

	if opts != nil {
		selection, err := json.Marshal(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to encode import selection: %w", err)
		}
		if err := writer.WriteField("import", string(selection)); err != nil {
			return nil, fmt.Errorf("failed to build upload: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	body, err := c.do(ctx, &requestSpec{
		method:      http.MethodPost,
		path:        "teleporter",
		rawBody:     buf.Bytes(),
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var result TeleporterImport
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse import result: %w", err)
	}
	return &result, nil
}
