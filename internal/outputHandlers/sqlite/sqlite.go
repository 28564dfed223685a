package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SkillOutput mirrors every scraped skill list into a sqlite database.
// Unlike run files it keeps jobs that produced no skills, so a run read
// back from here has the exact job count of the extraction.
type SkillOutput struct {
	Database string
	Log      *zap.SugaredLogger

	// RunID tags the records written by Record, see StartRun.
	RunID string

	db      *sql.DB
	recChan chan skillRecord
	wg      sync.WaitGroup

	dbLock sync.Mutex
}

type skillRecord struct {
	runID  string
	jobID  string
	skills string
}

type Run struct {
	ID        string
	SearchURL string
	StartedAt time.Time
	Jobs      int
}

func (o *SkillOutput) Init() error {
	if o.Database == "" {
		return errors.New("sqlite database file not set")
	}
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite3", o.Database)
	if err != nil {
		return err
	}
	// The go sqlite driver does not allow for concurrent writes
	db.SetMaxOpenConns(1)
	o.db = db

	createRuns := "CREATE TABLE IF NOT EXISTS runs (id text not null primary key, search_url text, started_at text);"
	if _, err := db.Exec(createRuns); err != nil {
		db.Close()
		return fmt.Errorf("failed to create table %q: %w", createRuns, err)
	}
	createRecords := "CREATE TABLE IF NOT EXISTS skill_records (id integer not null primary key, run_id text not null, job_id text, skills text);"
	if _, err := db.Exec(createRecords); err != nil {
		db.Close()
		return fmt.Errorf("failed to create table %q: %w", createRecords, err)
	}

	//Buffered channel so a slow disk does not hold up the browser
	o.recChan = make(chan skillRecord, 20)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		insertRec := "INSERT into skill_records(run_id, job_id, skills) values(?, ?, ?);"
		for r := range o.recChan {
			o.dbLock.Lock()
			_, err := db.Exec(insertRec, r.runID, r.jobID, r.skills)
			o.dbLock.Unlock()
			if err != nil {
				o.Log.Errorw("failed to insert skill record", "job", r.jobID, "error", err)
			}
		}
	}()
	return nil
}

// Cleanup flushes pending records and closes the database.
func (o *SkillOutput) Cleanup() {
	close(o.recChan)
	o.wg.Wait()
	o.db.Close()
}

// StartRun registers a new run and tags subsequent records with it.
func (o *SkillOutput) StartRun(searchURL string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	o.dbLock.Lock()
	_, err := o.db.Exec("INSERT into runs(id, search_url, started_at) values(?, ?, ?);",
		id, searchURL, startedAt.UTC().Format(time.RFC3339))
	o.dbLock.Unlock()
	if err != nil {
		return "", err
	}
	o.RunID = id
	return id, nil
}

// Record queues the skills of one job. It is safe for concurrent use.
func (o *SkillOutput) Record(jobID string, list skills.SkillList) error {
	if o.RunID == "" {
		return errors.New("no run started")
	}
	if list == nil {
		list = skills.SkillList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	o.recChan <- skillRecord{runID: o.RunID, jobID: jobID, skills: string(data)}
	return nil
}

// Runs lists the recorded runs, oldest first.
func (o *SkillOutput) Runs() ([]Run, error) {
	o.dbLock.Lock()
	defer o.dbLock.Unlock()

	rows, err := o.db.Query(`SELECT r.id, r.search_url, r.started_at, COUNT(s.id)
		FROM runs r LEFT JOIN skill_records s ON s.run_id = r.id
		GROUP BY r.id ORDER BY r.started_at, r.id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.SearchURL, &started, &r.Jobs); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SkillLists loads the skill lists of one run in the order they were scraped.
func (o *SkillOutput) SkillLists(runID string) ([]skills.SkillList, error) {
	o.dbLock.Lock()
	defer o.dbLock.Unlock()

	rows, err := o.db.Query("SELECT job_id, skills FROM skill_records WHERE run_id = ? ORDER BY id;", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []skills.SkillList{}
	for rows.Next() {
		var jobID, data string
		if err := rows.Scan(&jobID, &data); err != nil {
			return nil, err
		}
		var list skills.SkillList
		if err := json.Unmarshal([]byte(data), &list); err != nil {
			o.Log.Warnw("skipping skill record", "run", runID, "job", jobID, "error", err)
			continue
		}
		if list == nil {
			list = skills.SkillList{}
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// RunSource is an aggregation source backed by one recorded run.
type RunSource struct {
	Output *SkillOutput
	RunID  string
}

func (s RunSource) SkillLists() ([]skills.SkillList, error) {
	return s.Output.SkillLists(s.RunID)
}
