// Package config binds datasource sets from a YAML file. A file holds one
// section per backend integration, each with a primary name and a database
// map:
//
//	redis:
//	  primary: db1
//	  databases:
//	    db1:
//	      addr: localhost:6379
//	mongo:
//	  primary: main
//	  databases:
//	    main:
//	      hosts: [localhost:27017]
//	      database: app
//
// ${VAR} references are expanded from the environment before decoding, so
// credentials can stay out of the file. Absent sections simply bind empty,
// which the registrar treats as "not configured".
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dynsource/dynsource/backends/memory"
	"github.com/dynsource/dynsource/backends/mongo"
	"github.com/dynsource/dynsource/backends/postgres"
	"github.com/dynsource/dynsource/backends/redis"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the full bound configuration: one set per backend integration.
type File struct {
	Redis    redis.Set    `yaml:"redis"`
	Mongo    mongo.Set    `yaml:"mongo"`
	Postgres postgres.Set `yaml:"postgres"`
	Memory   memory.Set   `yaml:"memory"`
}

var validate = validator.New()

// Load reads, expands, decodes and validates the file at path. Unknown YAML
// fields are rejected; an empty file binds an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML config bytes.
func Parse(data []byte) (*File, error) {
	expanded := os.ExpandEnv(string(data))

	var f File
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate runs struct validation over every configured database.
func (f *File) Validate() error {
	for name, c := range f.Redis.Databases {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("redis database [%s]: %w", name, err)
		}
	}
	for name, c := range f.Mongo.Databases {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("mongo database [%s]: %w", name, err)
		}
	}
	for name, c := range f.Postgres.Databases {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("postgres database [%s]: %w", name, err)
		}
	}
	for name, c := range f.Memory.Databases {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("memory database [%s]: %w", name, err)
		}
	}
	return nil
}
