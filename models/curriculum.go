package models

// CurriculumData maps standard -> subject -> chapters.
type CurriculumData map[string]map[string]SubjectEntry

type SubjectEntry struct {
	Chapters []string `json:"chapters" yaml:"chapters" jsonschema:"required,description=Chapter titles in teaching order"`
}
