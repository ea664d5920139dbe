// Package stats exports run artifacts for offline inspection: the run
// record, its best layout, and the per-generation fitness history.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tekton/internal/model"
)

// RunArtifacts bundles everything a finished run leaves behind.
type RunArtifacts struct {
	Run            model.RunRecord
	Layout         model.LayoutRecord
	FitnessHistory []float64
}

// WriteRunArtifacts writes the artifact files under baseDir/<runID> and
// returns that directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "run.json"), artifacts.Run); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "layout.json"), artifacts.Layout); err != nil {
		return "", err
	}
	if err := writeFitnessCSV(filepath.Join(runDir, "fitness_history.csv"), artifacts.FitnessHistory); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadLayout loads a previously exported layout.
func ReadLayout(baseDir, runID string) (model.LayoutRecord, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, "layout.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return model.LayoutRecord{}, false, nil
		}
		return model.LayoutRecord{}, false, err
	}
	var layout model.LayoutRecord
	if err := json.Unmarshal(data, &layout); err != nil {
		return model.LayoutRecord{}, false, err
	}
	return layout, true, nil
}

func writeFitnessCSV(path string, history []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"generation", "best_fitness"}); err != nil {
		return err
	}
	for i, v := range history {
		record := []string{strconv.Itoa(i + 1), strconv.FormatFloat(v, 'g', -1, 64)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Summary condenses a fitness history for reporting.
type Summary struct {
	Generations int     `json:"generations"`
	InitialBest float64 `json:"initial_best"`
	FinalBest   float64 `json:"final_best"`
	Improvement float64 `json:"improvement"`
}

// Summarize reports first/last best fitness and the relative
// improvement (positive when fitness fell).
func Summarize(history []float64) Summary {
	if len(history) == 0 {
		return Summary{}
	}
	initial := history[0]
	final := history[len(history)-1]
	s := Summary{
		Generations: len(history),
		InitialBest: initial,
		FinalBest:   final,
	}
	if initial != 0 {
		s.Improvement = (initial - final) / initial
	}
	return s
}
