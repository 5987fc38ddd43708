package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"svault/utils"
)

type SecureFile struct {
	gorm.Model
	Slug             string `gorm:"uniqueIndex;size:12;not null" json:"slug"`
	OriginalFilename string `gorm:"size:255;not null" json:"originalFilename"`
	ContentType      string `gorm:"size:100" json:"contentType"`
	FileSize         int64  `gorm:"not null" json:"fileSize"`
	StorageKey       string `gorm:"size:255;not null" json:"-"`
	Description      string `gorm:"size:1024" json:"description,omitempty"`
	UploadedByID     uint   `gorm:"index;not null" json:"uploadedBy"`
}

// MaxFileSize is the upload ceiling (100MB).
const MaxFileSize = 100 * 1024 * 1024

var allowedExtensions = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
	"txt":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// FileExtension returns the lowercased extension of filename without the dot.
func FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// ValidateFile checks the upload against the size ceiling and the
// extension allow-list before anything is stored. All problems are
// reported at once under the file field.
func ValidateFile(filename string, size int64) map[string]string {
	var problems []string
	if size > MaxFileSize {
		problems = append(problems, "File size cannot exceed 100MB!")
	}
	if !allowedExtensions[FileExtension(filename)] {
		problems = append(problems, "File type not supported!")
	}
	if len(problems) == 0 {
		return nil
	}
	return map[string]string{"file": strings.Join(problems, " ")}
}

// CreateWithSlug inserts the file record with a fresh random slug and
// the storage key derived from it, retrying on collision. Each attempt
// checks and inserts against the unique index, so a concurrent insert
// of the same candidate fails the create and triggers another attempt
// instead of overwriting.
func (f *SecureFile) CreateWithSlug(db *gorm.DB, location string) error {
	for attempt := 0; attempt < 10; attempt++ {
		candidate, err := utils.GenerateSlug()
		if err != nil {
			return err
		}

		var count int64
		if err := db.Model(&SecureFile{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		f.Slug = candidate
		f.StorageKey = f.BuildStorageKey(location)
		if err := db.Create(f).Error; err != nil {
			// Lost the insert race on the unique index; try a new slug.
			continue
		}
		return nil
	}
	return errors.New("could not generate a unique slug")
}

// BuildStorageKey derives the object key from a year/month partition,
// the slug and the original extension.
func (f *SecureFile) BuildStorageKey(location string) string {
	ext := FileExtension(f.OriginalFilename)
	key := fmt.Sprintf("%s/%s.%s", time.Now().Format("2006/01"), f.Slug, ext)
	if location != "" {
		key = location + "/" + key
	}
	return key
}
