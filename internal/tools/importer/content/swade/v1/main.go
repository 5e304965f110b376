// Package catalogimporter loads SWADE reference payloads from JSON or YAML
// files into the sqlite content store.
package catalogimporter

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	storagesqlite "github.com/medinal/swade-character-creator/internal/services/game/storage/sqlite"
	"gopkg.in/yaml.v3"
)

const defaultSystemVer = "v1"

const (
	fileAttributes        = "attributes.json"
	fileSkills            = "skills.json"
	fileEdges             = "edges.json"
	fileHindrances        = "hindrances.json"
	filePowers            = "powers.json"
	fileAncestries        = "ancestries.json"
	fileArcaneBackgrounds = "arcane_backgrounds.json"
	fileGear              = "gear.json"
)

// Config holds configuration for the catalog importer.
type Config struct {
	Dir     string
	DBPath  string
	DryRun  bool
	Replace bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "swade-content.db"),
	}
	fs.StringVar(&cfg.Dir, "dir", "", "directory containing the JSON or YAML payload files")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	fs.BoolVar(&cfg.Replace, "replace", false, "replace the stored catalog instead of merging into it")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}
	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("dir is required")
	}

	files, err := readPayloadFiles(dir)
	if err != nil {
		return err
	}
	if files.empty() {
		return fmt.Errorf("no payload files found in %s", dir)
	}
	if err := files.validate(); err != nil {
		return fmt.Errorf("validate payloads: %w", err)
	}
	incoming := files.data()

	if cfg.DryRun {
		if _, err := content.New(incoming); err != nil {
			return fmt.Errorf("validate content: %w", err)
		}
		_, err = fmt.Fprintf(out, "validated %d entities\n", countEntities(incoming))
		return err
	}

	store, err := storagesqlite.OpenContent(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	catalog, err := importContent(ctx, store, incoming, cfg.Replace)
	if err != nil {
		return fmt.Errorf("import content: %w", err)
	}
	_, err = fmt.Fprintf(out, "imported %d entities into %s (catalog holds %d)\n",
		countEntities(incoming), cfg.DBPath, countEntities(catalog.Data()))
	return err
}

func readPayloadFiles(dir string) (payloadFiles, error) {
	var files payloadFiles
	var err error
	if files.Attributes, err = readPayload[payload[content.Attribute]](dir, fileAttributes); err != nil {
		return files, err
	}
	if files.Skills, err = readPayload[payload[content.Skill]](dir, fileSkills); err != nil {
		return files, err
	}
	if files.Edges, err = readPayload[payload[content.Edge]](dir, fileEdges); err != nil {
		return files, err
	}
	if files.Hindrances, err = readPayload[payload[content.Hindrance]](dir, fileHindrances); err != nil {
		return files, err
	}
	if files.Powers, err = readPayload[payload[content.Power]](dir, filePowers); err != nil {
		return files, err
	}
	if files.Ancestries, err = readPayload[payload[content.Ancestry]](dir, fileAncestries); err != nil {
		return files, err
	}
	if files.ArcaneBackgrounds, err = readPayload[payload[content.ArcaneBackground]](dir, fileArcaneBackgrounds); err != nil {
		return files, err
	}
	if files.Gear, err = readPayload[payload[content.Gear]](dir, fileGear); err != nil {
		return files, err
	}
	return files, nil
}

// readPayload decodes name from dir, falling back to its .yaml twin. A
// missing file yields nil; both forms present is an error.
func readPayload[T any](dir string, name string) (*T, error) {
	yamlName := strings.TrimSuffix(name, ".json") + ".yaml"
	jsonData, err := readOptional(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	yamlData, err := readOptional(filepath.Join(dir, yamlName))
	if err != nil {
		return nil, err
	}

	var value T
	switch {
	case jsonData != nil && yamlData != nil:
		return nil, fmt.Errorf("both %s and %s present", name, yamlName)
	case jsonData != nil:
		if err := json.Unmarshal(jsonData, &value); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	case yamlData != nil:
		if err := decodeYAML(yamlData, &value); err != nil {
			return nil, fmt.Errorf("decode %s: %w", yamlName, err)
		}
	default:
		return nil, nil
	}
	return &value, nil
}

// decodeYAML routes YAML through the JSON codecs so dice and requirement
// trees decode the same way in both formats.
func decodeYAML(data []byte, out any) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}
