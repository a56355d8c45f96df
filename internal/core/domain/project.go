package domain

import (
	"time"

	"github.com/google/uuid"
)

// LatestVersion is the project version alias resolved to Project.LatestVersion.
const LatestVersion = "latest"

type Repository struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FolderID    string `json:"folderId,omitempty"`
	IsDefault   bool   `json:"defaultRepository"`
}

type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	RepositoryID  string    `json:"repositoryId"`
	FolderID      string    `json:"folderId,omitempty"`
	LatestVersion string    `json:"latestVersion"`
	Function      string    `json:"function,omitempty"`
	TargetLevel   string    `json:"targetLevel,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"creationTimeStamp,omitempty"`
	ModifiedAt    time.Time `json:"modifiedTimeStamp,omitempty"`
}

type ProjectVersion struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"parentId,omitempty"`
	Number    string `json:"versionNumber,omitempty"`
}

// IsUUID reports whether a project reference is an id rather than a name.
func IsUUID(ref string) bool {
	_, err := uuid.Parse(ref)
	return err == nil
}
