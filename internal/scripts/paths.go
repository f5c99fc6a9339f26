package scripts

import (
	"os"
	"path/filepath"
	"strings"
)

// ScriptSearchPaths returns script directories in precedence order.
func ScriptSearchPaths(projectDir string) []string {
	paths := make([]string, 0, 2)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".brandkit", "scripts"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "brandkit", "scripts"))
	}
	return paths
}

// LoadScriptsFromSearchPaths loads scripts with first-hit precedence by
// name, falling back to the built-ins.
func LoadScriptsFromSearchPaths(projectDir string) ([]*Script, error) {
	return loadScriptsFromDirs(ScriptSearchPaths(projectDir))
}

func loadScriptsFromDirs(dirs []string) ([]*Script, error) {
	seen := make(map[string]*Script)
	order := make([]string, 0)

	add := func(scripts []*Script) {
		for _, script := range scripts {
			if _, exists := seen[script.Name]; exists {
				continue
			}
			seen[script.Name] = script
			order = append(order, script.Name)
		}
	}

	for _, dir := range dirs {
		scripts, err := LoadScriptsFromDir(dir)
		if err != nil {
			return nil, err
		}
		add(scripts)
	}

	builtins, err := LoadBuiltinScripts()
	if err != nil {
		return nil, err
	}
	add(builtins)

	resolved := make([]*Script, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}
	return resolved, nil
}

// FindScript returns the script with a case-insensitive name match.
func FindScript(scripts []*Script, name string) *Script {
	name = strings.TrimSpace(name)
	for _, script := range scripts {
		if strings.EqualFold(script.Name, name) {
			return script
		}
	}
	return nil
}
