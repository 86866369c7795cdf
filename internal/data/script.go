package data

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wtengine/wte/internal/core/message"
)

// ScriptEntry is one scripted message. A missing time means immediate.
type ScriptEntry struct {
	Time *int64 `yaml:"time"`
	Sys  string `yaml:"sys"`
	To   string `yaml:"to"`
	From string `yaml:"from"`
	Cmd  string `yaml:"cmd"`
	Args string `yaml:"args"`
}

type scriptFile struct {
	Messages []ScriptEntry `yaml:"messages"`
}

// Script is a timeline of messages posted when a game starts.
type Script struct {
	Messages []message.Message
	Checksum uint64
}

// Count returns the number of scripted messages.
func (s *Script) Count() int {
	return len(s.Messages)
}

// Post queues every scripted message on bus.
func (s *Script) Post(bus *message.Bus) {
	for _, m := range s.Messages {
		bus.Post(m)
	}
}

// LoadScript loads a message script from a YAML file.
func LoadScript(path, encoding string) (*Script, error) {
	raw, sum, err := readText(path, encoding)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := parseScript(raw)
	if err != nil {
		return nil, err
	}
	s.Checksum = sum
	return s, nil
}

func parseScript(raw []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	s := &Script{Messages: make([]message.Message, 0, len(f.Messages))}
	for i, e := range f.Messages {
		if e.Sys == "" || e.Cmd == "" {
			return nil, fmt.Errorf("parse script: entry %d needs sys and cmd", i)
		}
		at := message.Immediate
		if e.Time != nil {
			at = *e.Time
		}
		s.Messages = append(s.Messages, message.NewTimedTo(at, e.Sys, e.To, e.From, e.Cmd, e.Args))
	}
	return s, nil
}
