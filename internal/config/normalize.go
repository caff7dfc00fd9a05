package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLinkage()
	c.normalizeMerge()
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLinkage() {
	c.Linkage.Strategy = strings.ToLower(strings.TrimSpace(c.Linkage.Strategy))
	if c.Linkage.Strategy == "" {
		c.Linkage.Strategy = defaultStrategy
	}
	c.Linkage.BlockingScheme = strings.ToLower(strings.TrimSpace(c.Linkage.BlockingScheme))
	if c.Linkage.BlockingScheme == "" {
		c.Linkage.BlockingScheme = defaultBlockingScheme
	}
	if c.Linkage.Workers <= 0 {
		c.Linkage.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Linkage.EditionKeywords != nil {
		keywords := make([]string, 0, len(c.Linkage.EditionKeywords))
		for _, kw := range c.Linkage.EditionKeywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		c.Linkage.EditionKeywords = keywords
	}
}

func (c *Config) normalizeMerge() {
	precedence := defaultPrecedence()
	for field, rule := range c.Merge.Precedence {
		key := strings.ToLower(strings.TrimSpace(field))
		precedence[key] = strings.ToLower(strings.TrimSpace(rule))
	}
	c.Merge.Precedence = precedence
}

func (c *Config) normalizePublish() {
	c.Publish.Format = strings.ToLower(strings.TrimSpace(c.Publish.Format))
	if c.Publish.Format == "" {
		c.Publish.Format = defaultPublishFormat
	}
	c.Publish.FileName = strings.TrimSpace(c.Publish.FileName)
	if c.Publish.FileName == "" {
		c.Publish.FileName = defaultPublishFileName
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("GAMELINK_LOG_LEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
