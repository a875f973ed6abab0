package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pkg/errors"
)

// Config is the per-run pipeline configuration. It is loaded once in
// main and passed down explicitly; packages never reach for it as
// global state.
type Config struct {
	ExtractFolder      string `json:"extract_folder"`
	IntermediateFolder string `json:"intermediate_folder"`
	ConvertFolder      string `json:"convert_folder"`
	BlenderFolder      string `json:"blender_folder"`
	BakeScript         string `json:"bake_script"`
	Encoding           string `json:"encoding"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config file %q", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config file %q", path)
	}

	if err := cfg.Absolutize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Absolutize resolves the configured folders relative to the current
// working directory, mirroring how the original tool treated its paths.
func (cfg *Config) Absolutize() error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrapf(err, "Failed to get working directory")
	}

	for _, p := range []*string{
		&cfg.ExtractFolder, &cfg.IntermediateFolder,
		&cfg.ConvertFolder, &cfg.BakeScript,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(cwd, *p)
		}
	}
	return nil
}

var blenderInstallRoots = func() []string {
	if runtime.GOOS == "windows" {
		roots := make([]string, 0, 8)
		for _, disc := range []string{"A", "B", "C", "D", "E", "F", "G", "J"} {
			roots = append(roots, disc+`:\Program Files\Blender Foundation`)
		}
		return roots
	}
	return []string{"/usr/lib/blender", "/opt/blender"}
}()

func blenderExeName() string {
	if runtime.GOOS == "windows" {
		return "blender.exe"
	}
	return "blender"
}

// LocateBlender resolves the blender executable used for the bake step:
// the configured folder first, then PATH, then the newest versioned
// install under the conventional install roots.
func (cfg *Config) LocateBlender() (string, error) {
	if cfg.BlenderFolder != "" {
		exe := filepath.Join(cfg.BlenderFolder, blenderExeName())
		if _, err := os.Stat(exe); err == nil {
			return exe, nil
		}
	}

	if exe, err := exec.LookPath("blender"); err == nil {
		return exe, nil
	}

	for _, root := range blenderInstallRoots {
		entries, err := ioutil.ReadDir(root)
		if err != nil {
			continue
		}

		versions := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				versions = append(versions, e.Name())
			}
		}
		if len(versions) == 0 {
			continue
		}
		sort.Strings(versions)

		exe := filepath.Join(root, versions[len(versions)-1], blenderExeName())
		if _, err := os.Stat(exe); err == nil {
			return exe, nil
		}
	}

	return "", errors.Errorf("Failed to find blender executable (blender_folder %q)", cfg.BlenderFolder)
}
