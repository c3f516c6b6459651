package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs. Reports are linked from e-mails,
// so the link has to outlive a typical inbox delay.
const DefaultPresignedURLExpiry = 7 * 24 * time.Hour

// ReportStorage defines the object storage operations used to archive
// completed-plan reports.
type ReportStorage interface {
	// PutObject stores body under objectKey.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// ReportKey builds the object key of a plan report. The random suffix keeps links
// unguessable even though member and entry ids are not secret.
func ReportKey(memberID, entryID primitive.ObjectID) string {
	return path.Join("plan-reports", memberID.Hex(), fmt.Sprintf("%s-%s.html", entryID.Hex(), uuid.NewString()))
}
