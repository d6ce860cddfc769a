// Package creds_fs resolves feed server credentials from environment
// variables and a YAML file. Environment wins; a missing credential is
// reported as absent, never as an error.
package creds_fs

import (
	"os"
	"path/filepath"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type entry struct {
	User   string `yaml:"user,omitempty"`
	Secret string `yaml:"secret"`
}

type credFile struct {
	Services map[string]entry `yaml:"services"`
}

type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

// Credential resolves the credential for a service name ("cctray",
// "github").
func (s *Store) Credential(service string) (domain.Credential, bool) {
	if c, ok := fromEnv(service); ok {
		return c, true
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Credential{}, false
	}
	var cf credFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return domain.Credential{}, false
	}
	e, ok := cf.Services[service]
	if !ok || e.Secret == "" {
		return domain.Credential{}, false
	}
	return domain.Credential{User: e.User, Secret: e.Secret}, true
}

func fromEnv(service string) (domain.Credential, bool) {
	switch service {
	case "github":
		if v := os.Getenv("GITHUB_TOKEN"); v != "" {
			return domain.Credential{Secret: v}, true
		}
	case "cctray":
		user := os.Getenv("CCTRAY_USER")
		pass := os.Getenv("CCTRAY_PASS")
		if user != "" && pass != "" {
			return domain.Credential{User: user, Secret: pass}, true
		}
	}
	return domain.Credential{}, false
}

// Save stores a credential in the file, creating it with restrictive
// permissions on first use.
func (s *Store) Save(service string, cred domain.Credential) error {
	if s.path == "" {
		return errors.New("empty credentials path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "cannot create credentials directory")
	}

	cf := credFile{Services: map[string]entry{}}
	if b, err := os.ReadFile(s.path); err == nil {
		_ = yaml.Unmarshal(b, &cf)
		if cf.Services == nil {
			cf.Services = map[string]entry{}
		}
	}
	cf.Services[service] = entry{User: cred.User, Secret: cred.Secret}

	b, err := yaml.Marshal(&cf)
	if err != nil {
		return errors.Wrap(err, "cannot encode credentials")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrap(err, "cannot write credentials")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "cannot replace credentials")
}
