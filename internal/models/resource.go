package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceType string

const (
	ResourcePYQ      ResourceType = "pyq"
	ResourceNote     ResourceType = "note"
	ResourceBook     ResourceType = "book"
	ResourceSyllabus ResourceType = "syllabus"
)

// ResourceTypes lists every kind a resource may have.
var ResourceTypes = []ResourceType{ResourcePYQ, ResourceNote, ResourceBook, ResourceSyllabus}

func (t ResourceType) Valid() bool {
	switch t {
	case ResourcePYQ, ResourceNote, ResourceBook, ResourceSyllabus:
		return true
	}
	return false
}

type ExamType string

const (
	ExamMidsem ExamType = "Midsem"
	ExamEndsem ExamType = "Endsem"
)

func (e ExamType) Valid() bool {
	return e == ExamMidsem || e == ExamEndsem
}

// PlaceholderDownloadURL marks a resource without a downloadable file.
const PlaceholderDownloadURL = "#"

type Resource struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	Title       string       `gorm:"size:255;not null" json:"title" yaml:"title"`
	Type        ResourceType `gorm:"type:varchar(20);not null;index" json:"type" yaml:"type"`
	Branch      string       `gorm:"size:20;not null;index" json:"branch" yaml:"branch"`
	Semester    int          `gorm:"not null;index" json:"semester" yaml:"semester"`
	Subject     string       `gorm:"size:200" json:"subject" yaml:"subject"`
	Author      string       `gorm:"size:200" json:"author,omitempty" yaml:"author,omitempty"`
	Year        int          `json:"year,omitempty" yaml:"year,omitempty"`
	ExamType    ExamType     `gorm:"type:varchar(10)" json:"exam_type,omitempty" yaml:"exam_type,omitempty"`
	Tags        []string     `gorm:"serializer:json" json:"tags,omitempty" yaml:"tags,omitempty"`
	Description string       `gorm:"type:text" json:"description,omitempty" yaml:"description,omitempty"`
	DownloadURL string       `gorm:"size:500;not null" json:"download_url" yaml:"download_url"`
	Downloads   int          `gorm:"not null;default:0" json:"downloads" yaml:"downloads"`
	Likes       int          `gorm:"not null;default:0" json:"likes" yaml:"likes"`
	UploadedBy  string       `gorm:"size:100" json:"uploaded_by" yaml:"uploaded_by"`
	UploadedAt  time.Time    `gorm:"index" json:"uploaded_at" yaml:"uploaded_at"`

	// Stored file key, set when the upload carried a file.
	ObjectKey   string `gorm:"size:500" json:"-" yaml:"-"`
	ContentText string `gorm:"type:text" json:"-" yaml:"-"`
}

func (Resource) TableName() string {
	return "resources"
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Clone returns a copy that shares no memory with r.
func (r Resource) Clone() Resource {
	if r.Tags != nil {
		r.Tags = append([]string(nil), r.Tags...)
	}
	return r
}
