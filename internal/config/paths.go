package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Paths holds the executable-relative directory layout used by both the
// processor and the web server. All paths are absolute.
type Paths struct {
	ExecutableDir   string
	DataDir         string
	InputDir        string
	ProcessedDir    string
	LogsDir         string
	WebDir          string
	CredentialsPath string
}

var (
	pathsOnce sync.Once
	pathsInst *Paths
	pathsErr  error
)

// GetPaths returns the singleton path layout anchored at the executable's
// directory. Override the anchor with the NWR_BASE_DIR environment variable.
func GetPaths() (*Paths, error) {
	pathsOnce.Do(func() {
		pathsInst, pathsErr = buildPaths()
	})
	return pathsInst, pathsErr
}

func buildPaths() (*Paths, error) {
	base := os.Getenv("NWR_BASE_DIR")
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to determine executable path: %w", err)
		}
		base = filepath.Dir(exe)
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	return NewPaths(abs), nil
}

// NewPaths builds the layout under the given base directory. Exposed so tests
// and the processor's -dir flag can anchor at an arbitrary directory.
func NewPaths(base string) *Paths {
	dataDir := filepath.Join(base, "data")
	return &Paths{
		ExecutableDir:   base,
		DataDir:         dataDir,
		InputDir:        filepath.Join(dataDir, "input"),
		ProcessedDir:    filepath.Join(dataDir, "processed"),
		LogsDir:         filepath.Join(base, "logs"),
		WebDir:          filepath.Join(base, "web"),
		CredentialsPath: filepath.Join(base, "credentials.json"),
	}
}

// EnsureDirectories creates the data and log directories if they do not exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.InputDir, p.ProcessedDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Input file names expected under InputDir.
const (
	ParticipantsFile = "participant_data.csv"
	ProfessionsFile  = "professions.csv"
	TaxTableFile     = "tax_brackets.csv"
)

// Output file names written under ProcessedDir.
const (
	MergedFile   = "merged_participants.csv"
	TimelineFile = "net_worth_timeline.csv"
	AnnualFile   = "net_worth_annual.csv"
	SummaryFile  = "participant_summary.csv"
	SummaryJSON  = "participant_summary.json"
	WorkbookFile = "net_worth_report.xlsx"
)

// ParticipantsPath returns the absolute path of the participant survey CSV.
func (p *Paths) ParticipantsPath() string { return filepath.Join(p.InputDir, ParticipantsFile) }

// ProfessionsPath returns the absolute path of the profession worksheet CSV.
func (p *Paths) ProfessionsPath() string { return filepath.Join(p.InputDir, ProfessionsFile) }

// TaxTablePath returns the absolute path of the tax bracket CSV.
func (p *Paths) TaxTablePath() string { return filepath.Join(p.InputDir, TaxTableFile) }

// MergedPath returns the absolute path of the merged participant CSV.
func (p *Paths) MergedPath() string { return filepath.Join(p.ProcessedDir, MergedFile) }

// TimelinePath returns the absolute path of the long-format timeline CSV.
func (p *Paths) TimelinePath() string { return filepath.Join(p.ProcessedDir, TimelineFile) }

// AnnualPath returns the absolute path of the annual series CSV.
func (p *Paths) AnnualPath() string { return filepath.Join(p.ProcessedDir, AnnualFile) }

// SummaryPath returns the absolute path of the summary CSV.
func (p *Paths) SummaryPath() string { return filepath.Join(p.ProcessedDir, SummaryFile) }

// SummaryJSONPath returns the absolute path of the summary JSON document.
func (p *Paths) SummaryJSONPath() string { return filepath.Join(p.ProcessedDir, SummaryJSON) }

// WorkbookPath returns the absolute path of the Excel report workbook.
func (p *Paths) WorkbookPath() string { return filepath.Join(p.ProcessedDir, WorkbookFile) }

// LogPath resolves a log file name under LogsDir.
func (p *Paths) LogPath(name string) string { return filepath.Join(p.LogsDir, name) }
