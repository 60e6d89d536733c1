package curriculum

import (
	"sort"
	"sync/atomic"

	"schooltutor/models"

	"github.com/samber/lo"
)

// Snapshot is an immutable view of the curriculum. Lookups are exact and
// case-sensitive; free-text matching lives in the classifier.
type Snapshot struct {
	data      models.CurriculumData
	standards []string
	subjects  []string
}

func NewSnapshot(data models.CurriculumData) *Snapshot {
	copied := make(models.CurriculumData, len(data))
	for std, subjects := range data {
		inner := make(map[string]models.SubjectEntry, len(subjects))
		for name, entry := range subjects {
			inner[name] = models.SubjectEntry{Chapters: append([]string(nil), entry.Chapters...)}
		}
		copied[std] = inner
	}

	standards := lo.Keys(copied)
	sort.Strings(standards)

	subjects := lo.Uniq(lo.FlatMap(standards, func(std string, _ int) []string {
		return lo.Keys(copied[std])
	}))
	sort.Strings(subjects)

	return &Snapshot{data: copied, standards: standards, subjects: subjects}
}

func (s *Snapshot) IsEmpty() bool {
	return len(s.data) == 0
}

// Standards returns every standard in ascending order.
func (s *Snapshot) Standards() []string {
	return append([]string(nil), s.standards...)
}

// AllSubjects returns the union of subject names across standards, ascending.
func (s *Snapshot) AllSubjects() []string {
	return append([]string(nil), s.subjects...)
}

func (s *Snapshot) HasStandard(standard string) bool {
	_, ok := s.data[standard]
	return ok
}

// Subjects lists the subjects of one standard in ascending order.
func (s *Snapshot) Subjects(standard string) ([]string, bool) {
	subjects, ok := s.data[standard]
	if !ok {
		return nil, false
	}
	names := lo.Keys(subjects)
	sort.Strings(names)
	return names, true
}

// Chapters returns the chapters of a (standard, subject) pair in stored order.
func (s *Snapshot) Chapters(standard, subject string) ([]string, bool) {
	entry, ok := s.data[standard][subject]
	if !ok {
		return nil, false
	}
	return append([]string(nil), entry.Chapters...), true
}

// Data returns a copy of the underlying mapping.
func (s *Snapshot) Data() models.CurriculumData {
	return NewSnapshot(s.data).data
}

// Store holds the current snapshot. Replace swaps the whole reference so
// readers see either the old or the new curriculum, never a mix.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore(data models.CurriculumData) *Store {
	s := &Store{}
	s.Replace(data)
	return s
}

func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *Store) Replace(data models.CurriculumData) {
	s.current.Store(NewSnapshot(data))
}
