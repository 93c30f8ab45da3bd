// Package models holds the compiled-in retention ensembles. Its init()
// decodes every embedded table and registers it with the retention package,
// so importing this package for side effects is enough to make the models
// available through retention.Lookup.
//
// long_conf0_cluster0.yaml is a placeholder generated to reproduce the
// documented regression case; it is not a trained model.
package models

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/msoos/cryptominisat-sub002/retention"
)

//go:embed *.yaml
var tables embed.FS

func init() {
	for _, e := range mustLoad(tables) {
		retention.Register(e)
	}
}

// Names lists the embedded table files.
func Names() []string {
	entries, err := fs.ReadDir(tables, ".")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if path.Ext(ent.Name()) == ".yaml" {
			names = append(names, ent.Name())
		}
	}
	return names
}

// mustLoad decodes every table in fsys. A malformed table is a build defect,
// so it panics.
func mustLoad(fsys fs.FS) []*retention.Ensemble {
	matches, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		panic(err)
	}
	out := make([]*retention.Ensemble, 0, len(matches))
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			panic(fmt.Sprintf("read model table %s: %v", name, err))
		}
		e, err := retention.DecodeTable(bytes.NewReader(data))
		if err != nil {
			panic(fmt.Sprintf("model table %s: %v", name, err))
		}
		if want := fileName(e.Key); want != name {
			panic(fmt.Sprintf("model table %s declares key %s; expected file name %s", name, e.Key, want))
		}
		out = append(out, e)
	}
	return out
}

// fileName maps long/conf0/cluster0 to long_conf0_cluster0.yaml.
func fileName(k retention.ModelKey) string {
	return fmt.Sprintf("%s_conf%d_cluster%d.yaml", k.Length, k.Config, k.Cluster)
}
