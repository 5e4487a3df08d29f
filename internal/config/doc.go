// Package config loads and validates the TOML configuration file.
//
// Configuration is resolved from an explicit path when one is given, then
// ~/.config/sedgen/config.toml, then ./sedgen.toml. Missing files are not an
// error; defaults apply and a sample can be written with CreateSample. All
// path values support ~ expansion and are normalized to absolute paths
// during load.
package config
