// Package config loads the configuration of the viste command.
//
// The configuration is stored in viste.toml or viste.json in the working
// directory or one of its parents, or in a file given with --config.
// Missing fields take their defaults.
//
// # Configuration File Structure
//
//	[log]
//	level = "debug"
//	timestamps = true
//
//	[metrics]
//	enabled = true
//	namespace = "viste"
//
//	[tracing]
//	enabled = false
//	tracer_name = "github.com/SpacialCircumstances/viste"
//
//	[inspect]
//	host = "localhost"
//	port = 7070
//	queue_size = 64
//
//	[bench]
//	depth = 10
//	width = 10
//	iterations = 10000
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectAddress())
package config
