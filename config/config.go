// Package config loads navgen settings from an hjson file.
package config

import (
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"
	"go.uber.org/zap"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/common/logger"
	"github.com/gorustyt/gridnavmesh/navmesh"
	"github.com/gorustyt/gridnavmesh/navmesh/format"
)

type Build struct {
	MaxError        float64 `json:"max_error"`
	MergeConvex     bool    `json:"merge_convex"`
	MaxVertsPerNode int     `json:"max_verts_per_node"`
}

type Output struct {
	Codec string `json:"codec"`
	Gzip  bool   `json:"gzip"`
}

type Config struct {
	Build  Build          `json:"build"`
	Output Output         `json:"output"`
	Log    *logger.Config `json:"log"`
}

func Default() *Config {
	opts := navmesh.DefaultOptions()
	return &Config{
		Build: Build{
			MaxError:        opts.MaxError,
			MergeConvex:     opts.MergeConvex,
			MaxVertsPerNode: opts.MaxVertsPerNode,
		},
		Output: Output{Codec: format.Binary.Name()},
		Log:    logger.DefaultConfig(),
	}
}

// Parse overlays the hjson document data on the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := hjson.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

func (c *Config) Check() error {
	if c.Build.MaxError < 0 {
		return common.Preconditionf("build.max_error %v is negative", c.Build.MaxError)
	}
	if c.Build.MaxVertsPerNode < 3 {
		return common.Preconditionf("build.max_verts_per_node %d is below 3", c.Build.MaxVertsPerNode)
	}
	if _, err := format.CodecByName(c.Output.Codec); err != nil {
		return err
	}
	if c.Log == nil {
		c.Log = logger.DefaultConfig()
	}
	return nil
}

func (c *Config) Codec() (format.Codec, error) {
	return format.CodecByName(c.Output.Codec)
}

// BuildOptions turns the build section into navmesh options logging to log.
func (c *Config) BuildOptions(log *zap.Logger) []navmesh.Option {
	return []navmesh.Option{
		navmesh.WithMaxError(c.Build.MaxError),
		navmesh.WithMergeConvex(c.Build.MergeConvex),
		navmesh.WithMaxVertsPerNode(c.Build.MaxVertsPerNode),
		navmesh.WithLogger(log),
	}
}
