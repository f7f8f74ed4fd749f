package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the journal written at the root of an output directory.
const FileName = "runs.jsonl"

var mu sync.Mutex

// Entry describes one completed generation run.
type Entry struct {
	Time    string   `json:"time"`
	RunID   string   `json:"run_id"`
	Variant string   `json:"variant"`
	Seed    uint64   `json:"seed"`
	Records int      `json:"records"`
	Format  string   `json:"format"`
	Files   []string `json:"files"`
	Summary string   `json:"summary,omitempty"`
}

// Append stamps e with the current time and appends it as one JSON line to dir/runs.jsonl.
func Append(dir string, e Entry) error {
	mu.Lock()
	defer mu.Unlock()

	e.Time = time.Now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}
