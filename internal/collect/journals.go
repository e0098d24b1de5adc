// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultJournals is the built-in journal set, queried when no journals
// file and no config override are given.
var DefaultJournals = []string{
	"ACS Synthetic Biology",
	"Annual Review of Microbiology",
	"Bioinformatics",
	"Cell",
	"Cell Chemical Biology",
	"Cell Reports",
	"Cell Systems",
	"Chemical Science",
	"Current Opinion in Biotechnology",
	"Metabolic Engineering",
	"Nature",
	"Nature Biotechnology",
	"Nature Catalysis",
	"Nature Chemical Biology",
	"Nature Communications",
	"Nature Computational Science",
	"Nature Machine Intelligence",
	"Nature Metabolism",
	"Nature Methods",
	"Nature Microbiology",
	"Nature Reviews Molecular Cell Biology",
	"Nature Structural & Molecular Biology",
	"Nucleic Acids Research",
	"PLOS Biology",
	"PLOS Computational Biology",
	"PNAS",
	"Protein Science",
	"Science",
	"Science Advances",
	"Trends in Biochemical Sciences",
	"Trends in Biotechnology",
}

// journalFile is the on-disk representation of a journal list.
type journalFile struct {
	Journals []string `yaml:"journals"`
}

// LoadJournals reads a YAML journal list from path. Blank entries are
// dropped. An empty list is returned as-is: a run over zero journals
// produces an empty aggregate, not an error.
func LoadJournals(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading journals file %s: %w", path, err)
	}

	var jf journalFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parsing journals file %s: %w", path, err)
	}

	var journals []string
	for _, j := range jf.Journals {
		if j != "" {
			journals = append(journals, j)
		}
	}
	return journals, nil
}
