package main

import (
	"flag"
	"log"
	"os"

	"github.com/CarnageMarkus/GothicAnimsDecompile/config"
	"github.com/CarnageMarkus/GothicAnimsDecompile/decompile"
	"github.com/CarnageMarkus/GothicAnimsDecompile/man"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mdh"
	"github.com/CarnageMarkus/GothicAnimsDecompile/status"
)

func main() {
	var configPath, extract, intermediate, convert, blender, bakeScript string
	var encoding, overridesPath, statusAddr string
	var gltfPreview, noBake, verbose bool
	flag.StringVar(&configPath, "config", "config.json", "Path to config file")
	flag.StringVar(&extract, "extract", "", "Extract folder override (model scripts)")
	flag.StringVar(&intermediate, "intermediate", "", "Intermediate folder override (hierarchies, sample streams, output documents)")
	flag.StringVar(&convert, "convert", "", "Convert folder override (bake output)")
	flag.StringVar(&blender, "blender", "", "Blender folder override")
	flag.StringVar(&bakeScript, "bakescript", "", "Bake python script override")
	flag.StringVar(&encoding, "encoding", "", "Script code page override")
	flag.StringVar(&overridesPath, "overrides", "", "Path to combination overrides yaml")
	flag.StringVar(&statusAddr, "status", "", "Address of status server, empty to disable")
	flag.BoolVar(&gltfPreview, "gltfpreview", false, "Write gltf skeleton previews next to documents")
	flag.BoolVar(&noBake, "nobake", false, "Skip the blender bake, emit documents only")
	flag.BoolVar(&verbose, "verbose", false, "Dump selected combinations")
	flag.Parse()

	cfg := &config.Config{}
	if _, err := os.Stat(configPath); err == nil {
		if cfg, err = config.LoadConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if extract != "" {
		cfg.ExtractFolder = extract
	}
	if intermediate != "" {
		cfg.IntermediateFolder = intermediate
	}
	if convert != "" {
		cfg.ConvertFolder = convert
	}
	if blender != "" {
		cfg.BlenderFolder = blender
	}
	if bakeScript != "" {
		cfg.BakeScript = bakeScript
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}
	if err := cfg.Absolutize(); err != nil {
		log.Fatal(err)
	}

	if cfg.ExtractFolder == "" || cfg.IntermediateFolder == "" {
		flag.PrintDefaults()
		return
	}
	if _, err := os.Stat(cfg.ExtractFolder); err != nil {
		log.Fatalf("folder %q not exist!", cfg.ExtractFolder)
	}

	if cfg.Encoding != "" {
		if err := config.SetEncoding(cfg.Encoding); err != nil {
			log.Fatalf("%v, known encodings: %v", err, config.ListEncodings())
		}
	}

	var overrides config.ComboOverrides
	if overridesPath != "" {
		var err error
		if overrides, err = config.LoadComboOverrides(overridesPath); err != nil {
			log.Fatal(err)
		}
	}

	if statusAddr != "" {
		status.StartServer(statusAddr)
	}

	index, err := mdh.BuildIndex(cfg.IntermediateFolder)
	if err != nil {
		log.Fatal(err)
	}
	if len(index) == 0 {
		log.Fatalf("no hierarchies under %q, run the hierarchy conversion first", cfg.IntermediateFolder)
	}
	log.Printf("[main] indexed %v skeleton hierarchies", len(index))

	loader, err := man.NewDirLoader(cfg.IntermediateFolder)
	if err != nil {
		log.Fatal(err)
	}

	opts := decompile.Options{
		Overrides:   overrides,
		Verbose:     verbose,
		NoBake:      noBake,
		GLTFPreview: gltfPreview,
		BakeScript:  cfg.BakeScript,
	}
	if !noBake {
		if opts.BlenderExe, err = cfg.LocateBlender(); err != nil {
			log.Fatal(err)
		}
		if opts.BakeScript == "" {
			log.Fatal("bake_script is not configured")
		}
		if cfg.ConvertFolder != "" {
			if err := os.MkdirAll(cfg.ConvertFolder, os.ModePerm); err != nil {
				log.Fatal(err)
			}
		}
	}

	d := decompile.New(cfg, index, loader, opts)
	if err := d.Run(); err != nil {
		log.Fatal(err)
	}
}
