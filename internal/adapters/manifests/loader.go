// Package manifests reads declarative plugin manifests from YAML files.
package manifests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/manifest"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

var _ ports.ManifestSource = (*Loader)(nil)

// Loader implements ports.ManifestSource over the *.yaml and *.yml files at
// the root of a file system. Files are read in name order and may hold
// several documents separated by "---".
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewLoader creates a Loader reading from fsys, typically os.DirFS of the
// manifest directory.
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{fsys: fsys, logger: logger}
}

// Load decodes every manifest. Each document is checked against the
// embedded JSON schema first, so unknown fields and mistyped values are
// rejected. A document without a name is named after its file.
func (l *Loader) Load(ctx context.Context) ([]manifest.Manifest, error) {
	paths, err := l.paths()
	if err != nil {
		return nil, err
	}

	var out []manifest.Manifest
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docs, err := l.loadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
		l.logger.DebugContext(ctx, "manifest file loaded",
			slog.String("file", p),
			slog.Int("documents", len(docs)),
		)
	}

	l.logger.InfoContext(ctx, "manifests loaded",
		slog.Int("files", len(paths)),
		slog.Int("manifests", len(out)),
	)
	return out, nil
}

func (l *Loader) paths() ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(l.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("listing manifests %s: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return paths, nil
}

func (l *Loader) loadFile(p string) ([]manifest.Manifest, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	var docs []manifest.Manifest
	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s document %d: %w: %w", p, i+1, domain.ErrValidation, err)
		}

		m, err := decodeDocument(&node)
		if err != nil {
			return nil, fmt.Errorf("%s document %d: %w", p, i+1, err)
		}
		if m.Name == "" {
			m.Name = base
			if i > 0 {
				m.Name = fmt.Sprintf("%s-%d", base, i+1)
			}
		}
		docs = append(docs, m)
	}
	return docs, nil
}

func decodeDocument(node *yaml.Node) (manifest.Manifest, error) {
	var m manifest.Manifest
	var raw any
	if err := node.Decode(&raw); err != nil {
		return m, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if raw == nil {
		return m, nil
	}
	if err := checkShape(raw); err != nil {
		return m, err
	}
	if err := node.Decode(&m); err != nil {
		return m, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return m, nil
}
