package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client wraps the Drive API for folder provisioning, template copies and
// PDF export of working sheets.
type Client struct {
	svc *drive.Service
}

// NewClient creates a Drive client from a service account credentials file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// CreateFolder creates a folder under parentID and returns its id.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	f := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}
	created, err := c.svc.Files.Create(f).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", name, err)
	}
	return created.Id, nil
}

// FindFolder looks up a folder by name under a parent. Returns ("", nil) when
// no such folder exists.
func (c *Client) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		name, parentID, folderMimeType)
	list, err := c.svc.Files.List().Q(query).Fields("files(id)").PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to search folder %s: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// EnsureFolder returns the id of the named folder under parentID, creating it
// when missing.
func (c *Client) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	if id, err := c.FindFolder(ctx, name, parentID); err != nil {
		return "", err
	} else if id != "" {
		return id, nil
	}
	return c.CreateFolder(ctx, name, parentID)
}

// CopyFile copies a file (typically a sheet template) into a folder and
// returns the new file's id.
func (c *Client) CopyFile(ctx context.Context, fileID, newName, parentID string) (string, error) {
	meta := &drive.File{
		Name:    newName,
		Parents: []string{parentID},
	}
	copied, err := c.svc.Files.Copy(fileID, meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to copy file %s: %w", fileID, err)
	}
	return copied.Id, nil
}

// ExportPDF renders a Google Sheet as PDF and returns the bytes.
func (c *Client) ExportPDF(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Export(fileID, "application/pdf").Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export %s as PDF: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF export of %s: %w", fileID, err)
	}
	return data, nil
}

// UploadPDF stores PDF bytes as a new file in a folder and returns its id.
func (c *Client) UploadPDF(ctx context.Context, name, folderID string, content []byte) (string, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: "application/pdf",
		Parents:  []string{folderID},
	}
	created, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(content)).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload PDF %s: %w", name, err)
	}
	return created.Id, nil
}

// DownloadFile fetches a file's raw content.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// ViewURL returns the browser URL of a spreadsheet.
func ViewURL(fileID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", fileID)
}

// FileURL returns the browser URL of a generic Drive file (PDFs).
func FileURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}
