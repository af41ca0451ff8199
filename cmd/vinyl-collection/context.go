package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/justestif/go-vinyl-collection/internal/config"
	"github.com/justestif/go-vinyl-collection/internal/logging"
)

type commandContext struct {
	configFlag  *string
	datasetFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, datasetFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		datasetFlag: datasetFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.datasetFlag != nil && strings.TrimSpace(*c.datasetFlag) != "" {
			expanded, err := config.ExpandPath(strings.TrimSpace(*c.datasetFlag))
			if err != nil {
				c.configErr = fmt.Errorf("resolve dataset path: %w", err)
				return
			}
			cfg.Dataset.Path = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(w, cfg)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
