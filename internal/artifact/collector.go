package artifact

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

// Set is the diagnostic bundle of one stage. An empty set is valid, the
// absence of matching files is not an error.
type Set struct {
	Stage       v1beta1.StageName `json:"stage"`
	Name        string            `json:"name"`
	Dir         string            `json:"dir"`
	Files       []string          `json:"files,omitempty"`
	CollectedAt time.Time         `json:"collectedAt"`
}

type Collector struct {
	root     string
	dest     string
	suffixes []string
	logger   logr.Logger
}

// NewCollector collects files beneath root whose names match one of the
// given suffixes and bundles them below dest.
func NewCollector(root, dest string, suffixes []string, logger logr.Logger) *Collector {
	return &Collector{
		root:     root,
		dest:     dest,
		suffixes: suffixes,
		logger:   logger,
	}
}

// BundleName derives the published bundle name for a stage.
func BundleName(stage v1beta1.StageName) string {
	return fmt.Sprintf("%s-pipeline-logs", stage)
}

// Collect walks the working tree and copies every match into the stage
// bundle. A bundle left behind by a previous run is kept once as
// `<bundle>.old`. Collecting is additive, running it again yields a
// superset of the first pass.
func (c *Collector) Collect(ctx context.Context, stage v1beta1.StageName) (*Set, error) {
	set := &Set{
		Stage:       stage,
		Name:        BundleName(stage),
		CollectedAt: time.Now(),
	}
	set.Dir = filepath.Join(c.dest, set.Name)

	if err := c.rotate(set.Dir); err != nil {
		return set, err
	}

	if err := os.MkdirAll(set.Dir, 0755); err != nil {
		return set, fmt.Errorf("failed to create bundle directory: %w", err)
	}

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// keep walking, partial output may still be collectable
			c.logger.V(1).Info("skip unreadable path", "path", path, "err", err)
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			// never descend into our own bundles
			if within(path, c.dest) && path != c.root {
				return fs.SkipDir
			}

			return nil
		}

		if !c.match(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}

		if err := copyFile(path, filepath.Join(set.Dir, rel)); err != nil {
			return err
		}

		set.Files = append(set.Files, rel)
		return nil
	})

	if err != nil {
		return set, fmt.Errorf("failed to collect artifacts: %w", err)
	}

	c.logger.Info("collected artifacts", "bundle", set.Name, "files", len(set.Files))

	return set, nil
}

func (c *Collector) match(name string) bool {
	for _, suffix := range c.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

// rotate keeps the last run's bundle as `<dir>.old`, replacing an older
// one.
func (c *Collector) rotate(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	old := dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("failed to drop stale bundle: %w", err)
	}

	if err := os.Rename(dir, old); err != nil {
		return fmt.Errorf("failed to rotate bundle: %w", err)
	}

	return nil
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
