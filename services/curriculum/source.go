package curriculum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schooltutor/db"
	"schooltutor/logger"
	"schooltutor/models"

	"gopkg.in/yaml.v3"
)

var (
	// ErrSourceNotFound means the candidate location does not exist and the
	// next one should be tried.
	ErrSourceNotFound = errors.New("curriculum source not found")
	ErrNoCurriculum   = errors.New("no curriculum source could be loaded")
)

type Source interface {
	Name() string
	Load(ctx context.Context) (models.CurriculumData, error)
}

// FileSource reads a JSON or YAML file; the format follows the extension.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string {
	return "file:" + f.Path
}

func (f FileSource) Load(_ context.Context) (models.CurriculumData, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	var data models.CurriculumData
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	default:
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
	}
	return data, nil
}

// DBSource reads the curriculum row from Postgres.
type DBSource struct {
	Repo db.CurriculumRepository
}

func (d DBSource) Name() string {
	return "postgres:curriculum"
}

func (d DBSource) Load(ctx context.Context) (models.CurriculumData, error) {
	data, err := d.Repo.GetCurriculum(ctx)
	if errors.Is(err, db.ErrCurriculumNotFound) {
		return nil, ErrSourceNotFound
	}
	return data, err
}

// FileSources builds one FileSource per candidate path, in order.
func FileSources(paths []string) []Source {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, FileSource{Path: p})
	}
	return sources
}

// LoadFirst returns the data of the first candidate that loads. Missing and
// broken candidates are logged and skipped.
func LoadFirst(ctx context.Context, sources []Source, log *logger.Logger) (models.CurriculumData, Source, error) {
	for _, src := range sources {
		data, err := src.Load(ctx)
		if err != nil {
			if errors.Is(err, ErrSourceNotFound) {
				log.Debug("Curriculum source not present", "source", src.Name())
			} else {
				log.Error("Error loading curriculum data", "source", src.Name(), "error", err)
			}
			continue
		}
		if data == nil {
			data = models.CurriculumData{}
		}
		log.Info("Successfully loaded curriculum data", "source", src.Name(), "standards", len(data))
		return data, src, nil
	}
	log.Error("Failed to load curriculum data from all possible sources", "candidates", len(sources))
	return models.CurriculumData{}, nil, ErrNoCurriculum
}
