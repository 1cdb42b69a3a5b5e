package backup

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is read from a .env file:
//
//	BACKUP_ACCESS=...
//	BACKUP_SECRET=...
//	BACKUP_BUCKET=my-books
//	BACKUP_ENDPOINT=s3.us-west-004.backblazeb2.com
//	BACKUP_REGION=us-west-004
//	BACKUP_INSECURE=false
type Config struct {
	Access   string
	Secret   string
	Bucket   string
	Endpoint string
	Region   string
	// use http instead of https, for local minio
	Insecure bool
}

func (c *Config) Validate() error {
	if c.Access == "" || c.Secret == "" || c.Bucket == "" || c.Endpoint == "" {
		return errors.New("must provide BACKUP_ACCESS, BACKUP_SECRET, BACKUP_BUCKET and BACKUP_ENDPOINT")
	}
	return nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ParseEnv parses KEY=VALUE lines, skipping empty lines and # comments
func ParseEnv(d []byte) (map[string]string, error) {
	lines := strings.Split(normalizeNewlines(string(d)), "\n")
	m := make(map[string]string)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid line %d '%s' in .env", i+1, line)
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		m[key] = val
	}
	return m, nil
}

// ParseConfig builds Config from .env file content
func ParseConfig(d []byte) (*Config, error) {
	m, err := ParseEnv(d)
	if err != nil {
		return nil, err
	}
	c := &Config{
		Access:   m["BACKUP_ACCESS"],
		Secret:   m["BACKUP_SECRET"],
		Bucket:   m["BACKUP_BUCKET"],
		Endpoint: m["BACKUP_ENDPOINT"],
		Region:   m["BACKUP_REGION"],
	}
	if s := m["BACKUP_INSECURE"]; s != "" {
		c.Insecure, err = strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKUP_INSECURE '%s': %w", s, err)
		}
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func ReadConfig(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(d)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return c, nil
}
