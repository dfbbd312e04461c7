// Package index loads the candidate interface index from YAML shards.
//
// A shard maps structure path -> chain id -> interface id -> fields:
//
//	/data/1abc.pdb:
//	  A:
//	    "1":
//	      area: 512.3
//	      iso: false
//	      path: interfaces/1abc_A_1.pdb
//	      contact_residues: [12, 13, 52A]
//	      partner_chain: B
//
// Unknown fields are kept as extra columns. A relative sub-model path is
// resolved against the shard's directory.
package index

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pinterf/internal/adapter/listfmt"
	"pinterf/internal/domain"
	"pinterf/internal/port"
)

type candidateDoc struct {
	Area            float64           `yaml:"area"`
	Iso             bool              `yaml:"iso"`
	Path            string            `yaml:"path"`
	ContactResidues residueList       `yaml:"contact_residues"`
	Extra           map[string]string `yaml:",inline"`
}

type shardDoc map[string]map[string]map[string]candidateDoc

// residueList accepts either a YAML sequence or a comma-separated string.
type residueList []string

func (l *residueList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = listfmt.Split(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: contact_residues must be a list or string", node.Line)
}

// Loader reads a single shard file or every shard under a directory.
type Loader struct {
	walker port.ShardWalker
}

var _ port.ShardWalker = (*Walker)(nil)

func NewLoader(walker port.ShardWalker) *Loader {
	return &Loader{walker: walker}
}

// Load reads path. Directories are walked and their shards merged in
// lexical order, so later shards win on key collisions.
func (l *Loader) Load(path string) (domain.InterfaceIndex, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("interface index not found: %w", err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	files, err := l.walker.Walk(path)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}

	ix := domain.InterfaceIndex{}
	for _, f := range files {
		shard, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		ix.Merge(shard)
	}
	return ix, nil
}

// LoadFile reads one shard.
func LoadFile(path string) (domain.InterfaceIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface index: %w", err)
	}
	ix, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ix, nil
}

// Parse decodes one shard; baseDir resolves relative sub-model paths.
func Parse(data []byte, baseDir string) (domain.InterfaceIndex, error) {
	var doc shardDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	ix := domain.InterfaceIndex{}
	for structPath, chains := range doc {
		for chainID, interfaces := range chains {
			for id, c := range interfaces {
				subPath := c.Path
				if subPath != "" && !filepath.IsAbs(subPath) && baseDir != "" {
					subPath = filepath.Join(baseDir, subPath)
				}
				ix.Put(structPath, chainID, domain.CandidateInterface{
					ID:              id,
					Area:            c.Area,
					Isoform:         c.Iso,
					Path:            subPath,
					ContactResidues: []string(c.ContactResidues),
					Extra:           c.Extra,
				})
			}
		}
	}
	return ix, nil
}
