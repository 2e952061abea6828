// Package config loads offclient configuration from a YAML file, a .env file
// and the process environment, in increasing order of precedence.
//
// Environment variables map onto nested keys by splitting on underscores,
// with an optional OFFCLIENT_ prefix:
//
//	FOLKSONOMY_TOKEN            -> folksonomy.token
//	OFFCLIENT_HTTP_FORCE_HTTP2  -> http.force_http2
//	NUTRIPATROL_BASE_URL        -> nutripatrol.base_url
//	OFFCLIENT_ENVIRONMENT       -> environment
//
// Top-level scalars such as name and environment are only read with the prefix.
//
// # Usage
//
//	cfg, err := config.Load("offctl")
package config
