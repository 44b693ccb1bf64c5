package mongo

import (
	"net/url"
	"strings"
	"time"

	"github.com/dynsource/dynsource"
)

// Config describes one named MongoDB database. Either URI or Hosts must be
// set; when both are present URI wins.
type Config struct {
	URI            string        `yaml:"uri"`
	Hosts          []string      `yaml:"hosts"`
	Database       string        `yaml:"database" validate:"required"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	AuthSource     string        `yaml:"auth_source"`
	ReplicaSet     string        `yaml:"replica_set"`
	MinPoolSize    uint64        `yaml:"min_pool_size"`
	MaxPoolSize    uint64        `yaml:"max_pool_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	TLS            bool          `yaml:"tls"`
	GridFSBucket   string        `yaml:"gridfs_bucket"`
}

// Set binds a named map of MongoDB configs plus the primary name.
type Set = dynsource.Set[Config]

func (c Config) withDefaults() Config {
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 100
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.GridFSBucket == "" {
		c.GridFSBucket = "fs"
	}
	return c
}

func (c Config) validate() error {
	if c.URI == "" && len(c.Hosts) == 0 {
		return NewInvalidConfigError("uri or hosts")
	}
	if c.Database == "" {
		return NewInvalidConfigError("database")
	}
	return nil
}

// buildURI assembles a mongodb:// connection string from the discrete config
// fields. Used only when Config.URI is empty.
func buildURI(c Config) string {
	var sb strings.Builder
	sb.WriteString("mongodb://")
	if c.Username != "" {
		sb.WriteString(url.UserPassword(c.Username, c.Password).String())
		sb.WriteString("@")
	}
	sb.WriteString(strings.Join(c.Hosts, ","))
	sb.WriteString("/")
	sb.WriteString(c.Database)

	params := url.Values{}
	if c.AuthSource != "" {
		params.Set("authSource", c.AuthSource)
	}
	if c.ReplicaSet != "" {
		params.Set("replicaSet", c.ReplicaSet)
	}
	if len(params) > 0 {
		sb.WriteString("?")
		sb.WriteString(params.Encode())
	}
	return sb.String()
}
