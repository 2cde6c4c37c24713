// Package config loads fleetd's INI-style configuration file: a flat
// [core] section of string and integer keys controlling the slice login,
// filesystem layout, probe concurrency, and cycle timing. repair_package
// is optional and defaults to the profiler's own baseline package when
// absent.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the fully-parsed, validated configuration for a fleetd
// start run.
type Config struct {
	Slice         string
	User          string
	NodesDir      string
	DataDir       string
	LogDir        string
	RawNodes      string
	ThreadLimit   int
	SSHLimit      int
	SSHKeyLoc     string
	ProbingPeriod int
	InitialDelay  bool
	RepairPackage string
}

// requiredKeys lists every [core] key Load demands; missing any of them
// is a ConfigError.
var requiredKeys = []string{
	"slice", "user", "nodes_dir", "data_dir", "log_dir", "raw_nodes",
	"thread_limit", "ssh_limit", "ssh_keyloc", "probing_period", "initial_delay",
}

// Load parses the INI file at path and resolves relative paths against
// baseDir (the process's invocation directory). Missing sections, missing
// keys, and unparseable integers all produce a ConfigError.
func Load(path, baseDir string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, &Error{Path: path, Err: err}
	}
	defer f.Close()

	values, err := parseINI(f)
	if err != nil {
		return Config{}, &Error{Path: path, Err: err}
	}

	core, ok := values["core"]
	if !ok {
		return Config{}, &Error{Path: path, Err: fmt.Errorf("missing [core] section")}
	}
	for _, k := range requiredKeys {
		if _, ok := core[k]; !ok {
			return Config{}, &Error{Path: path, Err: fmt.Errorf("missing key %q in [core]", k)}
		}
	}

	threadLimit, err := strconv.Atoi(core["thread_limit"])
	if err != nil {
		return Config{}, &Error{Path: path, Err: fmt.Errorf("thread_limit: %w", err)}
	}
	sshLimit, err := strconv.Atoi(core["ssh_limit"])
	if err != nil {
		return Config{}, &Error{Path: path, Err: fmt.Errorf("ssh_limit: %w", err)}
	}
	probingPeriod, err := strconv.Atoi(core["probing_period"])
	if err != nil {
		return Config{}, &Error{Path: path, Err: fmt.Errorf("probing_period: %w", err)}
	}

	cfg := Config{
		Slice:         core["slice"],
		User:          core["user"],
		NodesDir:      resolvePath(baseDir, core["nodes_dir"]),
		DataDir:       resolvePath(baseDir, core["data_dir"]),
		LogDir:        resolvePath(baseDir, core["log_dir"]),
		RawNodes:      core["raw_nodes"],
		ThreadLimit:   threadLimit,
		SSHLimit:      sshLimit,
		SSHKeyLoc:     resolvePath(baseDir, core["ssh_keyloc"]),
		ProbingPeriod: probingPeriod,
		InitialDelay:  strings.EqualFold(core["initial_delay"], "yes"),
		RepairPackage: core["repair_package"],
	}
	return cfg, nil
}

// SeedPath returns the fully-resolved path to the seed file.
func (c Config) SeedPath() string {
	return filepath.Join(c.NodesDir, c.RawNodes)
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// parseINI parses a minimal INI subset: "[section]" headers and
// "key = value" or "key: value" lines within a section. Blank lines and
// lines starting with ';' or '#' are comments.
func parseINI(f *os.File) (map[string]map[string]string, error) {
	sections := make(map[string]map[string]string)
	var current string

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			sections[current] = make(map[string]string)
			continue
		}
		if current == "" {
			return nil, fmt.Errorf("key outside of any section: %q", line)
		}
		key, value, ok := splitKV(line)
		if !ok {
			return nil, fmt.Errorf("malformed line: %q", line)
		}
		sections[current][strings.ToLower(key)] = value
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

func splitKV(line string) (key, value string, ok bool) {
	sep := strings.IndexAny(line, "=:")
	if sep < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:sep]), strings.TrimSpace(line[sep+1:]), true
}
