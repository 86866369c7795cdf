package data

import "fmt"

// Loader reads game data files in one text encoding and keeps the last
// parse of each file. A file is reparsed only when its raw contents hash
// differently, so restarting a game does not pay for unchanged data.
type Loader struct {
	encoding string
	scripts  map[string]*Script
	spawns   map[string]*spawnListFile
}

func NewLoader(encoding string) *Loader {
	return &Loader{
		encoding: encoding,
		scripts:  make(map[string]*Script),
		spawns:   make(map[string]*spawnListFile),
	}
}

// Script returns the message script at path.
func (l *Loader) Script(path string) (*Script, error) {
	raw, sum, err := readText(path, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if s, ok := l.scripts[path]; ok && s.Checksum == sum {
		return s, nil
	}
	s, err := parseScript(raw)
	if err != nil {
		return nil, err
	}
	s.Checksum = sum
	l.scripts[path] = s
	return s, nil
}

// Spawns returns the spawn entries at path.
func (l *Loader) Spawns(path string) ([]SpawnEntry, error) {
	raw, sum, err := readText(path, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	if f, ok := l.spawns[path]; ok && f.checksum == sum {
		return f.Spawns, nil
	}
	f, err := parseSpawnFile(raw, sum)
	if err != nil {
		return nil, err
	}
	l.spawns[path] = f
	return f.Spawns, nil
}
