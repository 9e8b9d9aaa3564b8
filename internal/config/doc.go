// Package config loads loom project settings.
//
// Settings live in loom.yaml (or loom.json) at the project root. Every key
// can be overridden from the environment with the LOOM_ prefix, dots
// replaced by underscores: LOOM_DEV_PORT=4000 sets dev.port.
//
// # Configuration File Structure
//
//	debug: false
//	log:
//	  level: info      # debug, info, warn, error
//	  format: text     # text or json
//	render:
//	  pretty: false
//	  omit_anchors: true
//	metrics:
//	  enabled: true
//	  namespace: loom
//	dev:
//	  host: localhost
//	  port: 3000
//	  reload: true
//	  watch: [templates, data]
//	export:
//	  output: dist
//	  bucket: ""
//	  prefix: ""
//	  region: us-east-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
