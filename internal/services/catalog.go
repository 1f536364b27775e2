package services

import "github.com/P3chys/studyshare-api/internal/models"

// Catalog is the fixed vocabulary used by forms and filters.
type Catalog struct {
	Branches         []string              `json:"branches"`
	Semesters        []int                 `json:"semesters"`
	ExamTypes        []models.ExamType     `json:"exam_types"`
	ResourceTypes    []models.ResourceType `json:"resource_types"`
	SubjectsByBranch map[string][]string   `json:"subjects_by_branch"`
}

func (s *DataService) Catalog() Catalog {
	return Catalog{
		Branches:         models.Branches,
		Semesters:        models.Semesters,
		ExamTypes:        models.ExamTypes,
		ResourceTypes:    models.ResourceTypes,
		SubjectsByBranch: models.SubjectsByBranch,
	}
}
