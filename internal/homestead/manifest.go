package homestead

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/logging"
	"go.yaml.in/yaml/v3"
)

// Collection keys in Homestead.yaml.
const (
	keyFolders   = "folders"
	keySites     = "sites"
	keyDatabases = "databases"
)

// Mapping is a folders or sites entry: map is the host path (folders) or
// hostname (sites), to is the guest path.
type Mapping struct {
	Map string `yaml:"map" json:"map"`
	To  string `yaml:"to" json:"to"`
}

// Entries groups the three managed collections.
type Entries struct {
	Folders   []Mapping
	Sites     []Mapping
	Databases []string
}

// Empty reports whether e holds no entries.
func (e Entries) Empty() bool {
	return len(e.Folders) == 0 && len(e.Sites) == 0 && len(e.Databases) == 0
}

// AddResult reports which requested entries were appended and which were
// already present.
type AddResult struct {
	Added   Entries
	Skipped Entries
}

// Manifest is a parsed Homestead.yaml held as a YAML node tree.
type Manifest struct {
	path string
	doc  *yaml.Node
	root *yaml.Node // the top-level mapping
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.EFilesystem, "read", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, errors.Wrap(errors.EManifestParse, "parse", path, err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, errors.New(errors.EManifestParse, "validate", path, strings.Join(msgs, "; "))
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.EManifestParse, "parse", path, err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New(errors.EManifestParse, "parse", path, "top level is not a mapping")
	}

	return &Manifest{path: path, doc: &doc, root: doc.Content[0]}, nil
}

// Path returns the file the manifest was loaded from.
func (m *Manifest) Path() string {
	return m.path
}

// Folders returns the folders collection.
func (m *Manifest) Folders() ([]Mapping, error) {
	return decodeMappings(m.collection(keyFolders, false))
}

// Sites returns the sites collection.
func (m *Manifest) Sites() ([]Mapping, error) {
	return decodeMappings(m.collection(keySites, false))
}

// Databases returns the databases collection.
func (m *Manifest) Databases() ([]string, error) {
	seq := m.collection(keyDatabases, false)
	if seq == nil {
		return nil, nil
	}
	var out []string
	if err := seq.Decode(&out); err != nil {
		return nil, errors.Wrap(errors.EManifestParse, "decode", keyDatabases, err)
	}
	return out, nil
}

// AddFolder appends f unless an equal entry exists. It reports whether f was added.
func (m *Manifest) AddFolder(f Mapping) (bool, error) {
	return m.addMapping(keyFolders, f)
}

// AddSite appends s unless an equal entry exists. It reports whether s was added.
func (m *Manifest) AddSite(s Mapping) (bool, error) {
	return m.addMapping(keySites, s)
}

// AddDatabase appends name unless it is already listed. It reports whether name was added.
func (m *Manifest) AddDatabase(name string) (bool, error) {
	existing, err := m.Databases()
	if err != nil {
		return false, err
	}
	for _, db := range existing {
		if db == name {
			return false, nil
		}
	}
	return true, m.appendNode(keyDatabases, name)
}

func (m *Manifest) addMapping(key string, entry Mapping) (bool, error) {
	existing, err := decodeMappings(m.collection(key, false))
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e == entry {
			return false, nil
		}
	}
	return true, m.appendNode(key, entry)
}

func (m *Manifest) appendNode(key string, v interface{}) error {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return errors.Wrap(errors.EManifestParse, "encode", key, err)
	}
	seq := m.collection(key, true)
	seq.Content = append(seq.Content, &n)
	return nil
}

// collection returns the sequence node stored under key. With create set,
// a missing or null value is replaced by an empty sequence.
func (m *Manifest) collection(key string, create bool) *yaml.Node {
	for i := 0; i+1 < len(m.root.Content); i += 2 {
		if m.root.Content[i].Value != key {
			continue
		}
		val := m.root.Content[i+1]
		if val.Kind == yaml.SequenceNode {
			if create && len(val.Content) == 0 {
				val.Style = 0 // "folders: []" becomes a block sequence once filled
			}
			return val
		}
		if !create {
			return nil
		}
		val.Kind, val.Tag, val.Value, val.Style = yaml.SequenceNode, "!!seq", "", 0
		return val
	}
	if !create {
		return nil
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	m.root.Content = append(m.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		seq,
	)
	return seq
}

func decodeMappings(seq *yaml.Node) ([]Mapping, error) {
	if seq == nil {
		return nil, nil
	}
	var out []Mapping
	if err := seq.Decode(&out); err != nil {
		return nil, errors.Wrap(errors.EManifestParse, "decode", seq.Tag, err)
	}
	return out, nil
}

// Save serializes the manifest and replaces the file via temp file + rename.
func (m *Manifest) Save() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(m.doc); err != nil {
		return errors.Wrap(errors.EManifestParse, "encode", m.path, err)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(errors.EManifestParse, "encode", m.path, err)
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(m.path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := writeFileAtomic(m.path, buf.Bytes(), perm); err != nil {
		return errors.Wrap(errors.EFilesystem, "write", m.path, err)
	}
	return nil
}

// AddProject loads the manifest at path, appends folder, sites and databases
// (skipping entries already present) and saves it if anything was added.
// Calling it again with the same arguments is a no-op.
func AddProject(path string, folder Mapping, sites []Mapping, databases []string) (*AddResult, error) {
	logger := logging.GetLogger("homestead")

	m, err := Load(path)
	if err != nil {
		return nil, err
	}

	res := &AddResult{}
	added, err := m.AddFolder(folder)
	if err != nil {
		return nil, err
	}
	if added {
		res.Added.Folders = append(res.Added.Folders, folder)
	} else {
		res.Skipped.Folders = append(res.Skipped.Folders, folder)
	}

	for _, s := range sites {
		added, err := m.AddSite(s)
		if err != nil {
			return nil, err
		}
		if added {
			res.Added.Sites = append(res.Added.Sites, s)
		} else {
			res.Skipped.Sites = append(res.Skipped.Sites, s)
		}
	}

	for _, db := range databases {
		added, err := m.AddDatabase(db)
		if err != nil {
			return nil, err
		}
		if added {
			res.Added.Databases = append(res.Added.Databases, db)
		} else {
			res.Skipped.Databases = append(res.Skipped.Databases, db)
		}
	}

	if res.Added.Empty() {
		logger.Info().Str("path", path).Msg("Manifest already contains project entries")
		return res, nil
	}
	if err := m.Save(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("path", path).
		Int("folders", len(res.Added.Folders)).
		Int("sites", len(res.Added.Sites)).
		Int("databases", len(res.Added.Databases)).
		Msg("Manifest updated")
	return res, nil
}

// writeFileAtomic writes data to a temp file in path's directory and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".homestead-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	success = true
	return nil
}
