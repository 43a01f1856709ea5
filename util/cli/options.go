package cli

import (
	"flag"
)

type Options struct {
	Port      int
	PrintHelp bool
}

var opts = Options{}

var EnvMessage = `This requires the following environment vars:

TUBECAST_CONFIG_DIR - Path to the directory containing the .env settings file.

TUBECAST_ENV - Name of the configuration to load. For example:
    test - Loads .env.test from TUBECAST_CONFIG_DIR
    demo - Loads .env.demo from TUBECAST_CONFIG_DIR
`

func Init() {
	flag.IntVar(&opts.Port, "port", 0, "Listen on this port instead of the one named in the config file")
	flag.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

func ParseOpts() Options {
	flag.Parse()
	return opts
}

func PrintDefaults() {
	flag.PrintDefaults()
}
