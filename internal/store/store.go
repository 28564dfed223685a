package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AlfredBerg/rod-skills/internal/skills"
	"go.uber.org/zap"
)

// ErrMalformedRecord marks a persisted line or segment that is not a JSON
// array of strings.
var ErrMalformedRecord = errors.New("malformed skill record")

const emptyRecord = "[]"

// RunFile appends one JSON array per scraped job to a text file.
type RunFile struct {
	Path string
}

func NewRunFile(dir, name string) (*RunFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating runs directory: %w", err)
	}
	return &RunFile{Path: filepath.Join(dir, name)}, nil
}

// Append writes list as a single line. Lists that encode to [] are skipped.
func (r *RunFile) Append(list skills.SkillList) error {
	line, err := encode(list)
	if err != nil {
		return err
	}
	if line == emptyRecord {
		return nil
	}

	f, err := os.OpenFile(r.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Record lets a RunFile act as the persistence hook of the skill extractor.
func (r *RunFile) Record(jobID string, list skills.SkillList) error {
	return r.Append(list)
}

func encode(list skills.SkillList) (string, error) {
	if list == nil {
		list = skills.SkillList{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]string(list)); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func decode(data []byte) (skills.SkillList, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: null", ErrMalformedRecord)
	}
	return list, nil
}

// Loader reads run files back into skill lists. Bad records are logged and skipped.
type Loader struct {
	Log *zap.SugaredLogger
}

func NewLoader(log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{Log: log}
}

// LoadRun decodes every non-empty line of one run file.
func (l *Loader) LoadRun(path string) ([]skills.SkillList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lists := []skills.SkillList{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		list, err := decode(line)
		if err != nil {
			l.Log.Warnw("skipping skill record", "file", path, "line", lineNo, "error", err)
			continue
		}
		lists = append(lists, list)
	}
	if err := sc.Err(); err != nil {
		return lists, err
	}
	return lists, nil
}

// LoadAllRuns reads every regular file in dir, in name order, and recovers
// the individual records with ScanRecords. Each file is scanned on its own,
// so a record truncated at the end of one file never swallows the next.
func (l *Loader) LoadAllRuns(dir string) ([]skills.SkillList, error) {
	files, err := ListRunFiles(dir)
	if err != nil {
		return nil, err
	}

	lists := []skills.SkillList{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		for _, seg := range ScanRecords(data) {
			err := seg.Err
			var list skills.SkillList
			if err == nil {
				list, err = decode(seg.Data)
			}
			if err != nil {
				l.Log.Warnw("discarding segment", "file", file, "offset", seg.Offset, "segment", string(seg.Data), "error", err)
				continue
			}
			lists = append(lists, list)
		}
	}
	return lists, nil
}

// ListRunFiles returns the regular files of dir sorted by name.
func ListRunFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// FileSource is an aggregation source backed by one run file.
type FileSource struct {
	Loader *Loader
	Path   string
}

func (s FileSource) SkillLists() ([]skills.SkillList, error) {
	return s.Loader.LoadRun(s.Path)
}

// DirSource is an aggregation source backed by every run file of a directory.
type DirSource struct {
	Loader *Loader
	Dir    string
}

func (s DirSource) SkillLists() ([]skills.SkillList, error) {
	return s.Loader.LoadAllRuns(s.Dir)
}
