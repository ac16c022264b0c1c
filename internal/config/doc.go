// Package config holds the options of a linkgrab run, their defaults and
// validation, and the optional YAML configuration file that can preset them.
package config
