package models

import "time"

type Folder string

const (
	FolderQuotation          Folder = "quotation"
	FolderFinalisedQuotation Folder = "finalised-quotation"
	FolderBill               Folder = "bill"
)

func (f Folder) Valid() bool {
	switch f {
	case FolderQuotation, FolderFinalisedQuotation, FolderBill:
		return true
	}
	return false
}

// UploadedFile is a stored document under <customer id>/<folder>/<name>.
type UploadedFile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Folder    Folder     `json:"folder"`
	URL       string     `json:"url"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
