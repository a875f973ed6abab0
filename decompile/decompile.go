// Package decompile drives the reconstruction pipeline: model scripts
// are parsed, clips grouped per ASC source animation, the best clip
// combination selected, sample streams merged and handed to the bake.
package decompile

import (
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/CarnageMarkus/GothicAnimsDecompile/asc"
	"github.com/CarnageMarkus/GothicAnimsDecompile/bake"
	"github.com/CarnageMarkus/GothicAnimsDecompile/config"
	"github.com/CarnageMarkus/GothicAnimsDecompile/man"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mdh"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mds"
	"github.com/CarnageMarkus/GothicAnimsDecompile/status"
	"github.com/CarnageMarkus/GothicAnimsDecompile/utils"
)

type Options struct {
	Overrides   config.ComboOverrides
	Verbose     bool
	NoBake      bool
	GLTFPreview bool
	BlenderExe  string
	BakeScript  string
}

// Decompiler is the pipeline context: configuration and collaborators
// are bound once at construction and never mutated afterwards.
type Decompiler struct {
	cfg    *config.Config
	index  mdh.Index
	loader man.Loader
	opts   Options
}

func New(cfg *config.Config, index mdh.Index, loader man.Loader, opts Options) *Decompiler {
	return &Decompiler{
		cfg:    cfg,
		index:  index,
		loader: loader,
		opts:   opts,
	}
}

func findScripts(root string) ([]string, error) {
	scripts := make([]string, 0, 32)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToUpper(d.Name()), ".MDS") {
			scripts = append(scripts, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to scan %q for model scripts", root)
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Run processes every model script under the extract folder. One
// script or track failing never stops the others; only an unusable
// hierarchy index aborts the run.
func (d *Decompiler) Run() error {
	if len(d.index) == 0 {
		return errors.New("hierarchy index is empty")
	}

	scripts, err := findScripts(d.cfg.ExtractFolder)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		log.Printf("[decompile] no model scripts under %q", d.cfg.ExtractFolder)
		return nil
	}

	for i, path := range scripts {
		rel := d.relToExtract(path)
		status.Progress(float32(i)/float32(len(scripts)), "script %v", rel)

		if err := d.processScript(path); err != nil {
			log.Printf("[decompile] script %v failed: %v", rel, err)
			status.Error("script %v failed", rel)
		}
	}

	status.Progress(1.0, "done")
	return nil
}

func (d *Decompiler) relToExtract(path string) string {
	if rel, err := filepath.Rel(d.cfg.ExtractFolder, path); err == nil {
		return rel
	}
	return path
}

func (d *Decompiler) processScript(path string) error {
	script, err := mds.ParseFile(path)
	if err != nil {
		return err
	}

	groups := mds.GroupByModel(script.Animations)

	ascNames := make([]string, 0, len(groups))
	for name := range groups {
		ascNames = append(ascNames, name)
	}
	sort.Strings(ascNames)

	for _, ascName := range ascNames {
		// a failed track aborts that track only, never its siblings
		if err := d.processTrack(path, ascName, groups[ascName]); err != nil {
			log.Printf("[decompile] ASC %v: ABORT: %v", ascName, err)
			status.Error("ASC %v failed", ascName)
		}
	}
	return nil
}

func (d *Decompiler) processTrack(scriptPath, ascName string, anis []*mds.Animation) error {
	chosen, _ := asc.FindBestCombo(ascName, anis, d.opts.Overrides.Lookup(ascName))
	if d.opts.Verbose {
		utils.LogDump(chosen)
	}

	scriptName := mds.ScriptName(scriptPath)
	streams := make([]*man.Animation, 0, len(chosen))
	for _, ani := range chosen {
		st, err := d.loader.Load(scriptName, ani.Name)
		if err != nil {
			log.Printf("[decompile] %v: no sample stream for %v: %v", ascName, ani.Name, err)
			continue
		}
		streams = append(streams, st)
	}

	merged, h, err := asc.MergeAnimations(ascName, streams, d.index)
	if err != nil {
		return err
	}

	docPath := d.documentPath(scriptPath, ascName)
	if err := bake.WriteDocument(docPath, merged, h); err != nil {
		return err
	}
	log.Printf("[decompile] prepared: %v", d.relToExtract(scriptPath)+" -> "+filepath.Base(docPath))
	status.Info("prepared %v", ascName)

	if d.opts.GLTFPreview {
		if err := bake.ExportSkeletonGLTF(docPath+".gltf", h, merged); err != nil {
			log.Printf("[decompile] %v: gltf preview failed: %v", ascName, err)
		}
	}

	if !d.opts.NoBake {
		if err := bake.RunBlender(d.opts.BlenderExe, d.opts.BakeScript, docPath, d.cfg.ConvertFolder); err != nil {
			return err
		}
	}
	return nil
}

// documentPath mirrors the script's location under the intermediate
// folder: EXTRACT/ANIMS/HUMANS.MDS reconstructing HUM_RUN.ASC lands at
// INTERMEDIATE/ANIMS/HUM_RUN.ASC.json.
func (d *Decompiler) documentPath(scriptPath, ascName string) string {
	rel, err := filepath.Rel(d.cfg.ExtractFolder, filepath.Dir(scriptPath))
	if err != nil {
		rel = ""
	}
	return filepath.Join(d.cfg.IntermediateFolder, rel, ascName+".json")
}
