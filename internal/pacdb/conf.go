package pacdb

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ParseRepos returns the repository sections of a pacman.conf in file order.
// Only section names matter here; Include and Server lines are ignored.
func ParseRepos(r io.Reader) ([]string, error) {
	var repos []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}

		name := strings.TrimSpace(line[1 : len(line)-1])
		if name == "" || name == "options" || seen[name] {
			continue
		}
		seen[name] = true
		repos = append(repos, name)
	}
	return repos, scanner.Err()
}

// syncRepos decides which sync databases to load: the repositories named in
// pacman.conf, or every database found in the sync directory when the
// configuration cannot be read.
func (l *loader) syncRepos() []string {
	if l.opts.PacmanConf != "" {
		f, err := os.Open(l.opts.PacmanConf)
		if err == nil {
			defer f.Close()
			repos, err := ParseRepos(f)
			if err == nil {
				return repos
			}
			l.log.WithError(err).Warn("parsing pacman.conf, enumerating sync directory instead")
		} else {
			l.log.WithError(err).Debug("pacman.conf unavailable, enumerating sync directory")
		}
	}

	entries, err := os.ReadDir(filepath.Join(l.opts.DBPath, "sync"))
	if err != nil {
		l.log.WithError(err).Warn("reading sync directory")
		return nil
	}

	seen := make(map[string]bool)
	var repos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range []string{".files", ".db"} {
			if strings.HasSuffix(name, ext) {
				repo := strings.TrimSuffix(name, ext)
				if !seen[repo] {
					seen[repo] = true
					repos = append(repos, repo)
				}
			}
		}
	}
	sort.Strings(repos)
	return repos
}
