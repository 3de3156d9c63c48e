package git

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Repository identifies a hosted repository
type Repository struct {
	Owner     string
	Name      string
	RemoteURL string
}

// DetectRepository reads .git/config in dir and returns the origin remote
func DetectRepository(dir string) (Repository, error) {
	configPath := filepath.Join(dir, ".git", "config")
	f, err := os.Open(configPath)
	if err != nil {
		return Repository{}, fmt.Errorf("could not open .git/config: %w", err)
	}
	defer f.Close()

	var inOrigin bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `[remote "origin"]` {
			inOrigin = true
			continue
		}
		if inOrigin && strings.HasPrefix(line, "[") {
			break
		}
		if inOrigin && strings.HasPrefix(line, "url") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return ParseRemoteURL(strings.TrimSpace(parts[1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Repository{}, fmt.Errorf("reading .git/config: %w", err)
	}
	return Repository{}, errors.New("no origin remote found in .git/config")
}

// ParseRemoteURL parses HTTPS (https://github.com/owner/repo.git) and SSH
// (git@github.com:owner/repo.git) remotes. RemoteURL keeps the input as given.
func ParseRemoteURL(rawURL string) (Repository, error) {
	normalized := strings.TrimSuffix(rawURL, ".git")

	if strings.HasPrefix(normalized, "git@") {
		parts := strings.SplitN(strings.TrimPrefix(normalized, "git@"), ":", 2)
		if len(parts) != 2 {
			return Repository{}, fmt.Errorf("invalid SSH remote URL: %s", rawURL)
		}
		return splitOwnerRepo(parts[1], rawURL)
	}

	if strings.HasPrefix(normalized, "https://") || strings.HasPrefix(normalized, "http://") {
		withoutScheme := strings.TrimPrefix(strings.TrimPrefix(normalized, "https://"), "http://")
		parts := strings.SplitN(withoutScheme, "/", 2)
		if len(parts) != 2 {
			return Repository{}, fmt.Errorf("invalid HTTPS remote URL: %s", rawURL)
		}
		return splitOwnerRepo(parts[1], rawURL)
	}

	return Repository{}, fmt.Errorf("unsupported remote URL format: %s", rawURL)
}

func splitOwnerRepo(path, rawURL string) (Repository, error) {
	ownerRepo := strings.SplitN(path, "/", 2)
	if len(ownerRepo) != 2 || ownerRepo[0] == "" || ownerRepo[1] == "" || strings.Contains(ownerRepo[1], "/") {
		return Repository{}, fmt.Errorf("remote URL %s is not owner/repo", rawURL)
	}
	return Repository{Owner: ownerRepo[0], Name: ownerRepo[1], RemoteURL: rawURL}, nil
}
