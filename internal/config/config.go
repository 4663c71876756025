// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// LogLevel sets the minimum structured-log level (Debug, Info, Warn, Error).
	LogLevel string

	// MaxLoginAttempts is the number of failed logins that installs a lockout.
	MaxLoginAttempts int

	// LockoutMinutes is how long a lockout stays active.
	LockoutMinutes int

	// SweepIntervalSeconds is how often expired lockout records are purged.
	SweepIntervalSeconds int

	// WelcomeFrom is the sender of the registration welcome message.
	WelcomeFrom string

	// WelcomeSubject is the subject of the registration welcome message.
	WelcomeSubject string

	// WelcomeBody is the body of the registration welcome message.
	WelcomeBody string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.LogLevel, "l", "Info", "log level")
	flag.IntVar(&options.MaxLoginAttempts, "attempts", 5, "failed logins before lockout")
	flag.IntVar(&options.LockoutMinutes, "lockout", 15, "lockout duration in minutes")
	flag.IntVar(&options.SweepIntervalSeconds, "sweep", 60, "lockout sweep interval in seconds")
	flag.StringVar(&options.WelcomeFrom, "welcome-from", "system@forum.com", "welcome message sender")
	flag.StringVar(&options.WelcomeSubject, "welcome-subject", "Welcome to the Forum", "welcome message subject")
	flag.StringVar(&options.WelcomeBody, "welcome-body",
		"Welcome to our forum system! Feel free to ask questions and help others.",
		"welcome message body")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if v := os.Getenv("MAX_LOGIN_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			options.MaxLoginAttempts = n
		}
	}
	if v := os.Getenv("LOCKOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			options.LockoutMinutes = n
		}
	}
	if v := os.Getenv("SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			options.SweepIntervalSeconds = n
		}
	}
	if from := os.Getenv("WELCOME_FROM"); from != "" {
		options.WelcomeFrom = from
	}
	if subject := os.Getenv("WELCOME_SUBJECT"); subject != "" {
		options.WelcomeSubject = subject
	}
	if body := os.Getenv("WELCOME_BODY"); body != "" {
		options.WelcomeBody = body
	}

	return options
}
